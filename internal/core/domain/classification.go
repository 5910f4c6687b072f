package domain

// DefaultConfidenceThreshold is the confidence below which a result needs review.
const DefaultConfidenceThreshold = 0.7

// ClassificationResult is the model's proposed mapping of one document
// to a knowledge object.
type ClassificationResult struct {
	Filename               string                  `json:"filename"`
	ObjectType             KnowledgeType           `json:"objectType"`
	ObjectName             string                  `json:"objectName"`
	Tags                   []string                `json:"tags"`
	SuggestedRelationships []SuggestedRelationship `json:"suggestedRelationships"`
	Confidence             float64                 `json:"confidence"`

	// NeedsReview is frozen at classification time and never re-derived.
	NeedsReview bool `json:"needsReview"`
}

// Clone returns a deep copy of the result.
func (r ClassificationResult) Clone() ClassificationResult {
	r.Tags = cloneStrings(r.Tags)
	if r.SuggestedRelationships != nil {
		rels := make([]SuggestedRelationship, len(r.SuggestedRelationships))
		copy(rels, r.SuggestedRelationships)
		r.SuggestedRelationships = rels
	}
	return r
}

// SuggestedRelationship links a classified document to an existing object.
// It is only ever built from a resolved object, so TargetID is always real.
type SuggestedRelationship struct {
	TargetID         string           `json:"targetId"`
	TargetName       string           `json:"targetName"`
	TargetType       KnowledgeType    `json:"targetType"`
	RelationshipType RelationshipType `json:"relationshipType"`
}

// ClassificationEdit is a partial ClassificationResult holding the fields
// a human has overridden. Nil pointers and nil slices are "not overridden";
// an empty non-nil slice overrides with an empty list.
type ClassificationEdit struct {
	ObjectType             *KnowledgeType          `json:"objectType,omitempty"`
	ObjectName             *string                 `json:"objectName,omitempty"`
	Tags                   []string                `json:"tags"`
	SuggestedRelationships []SuggestedRelationship `json:"suggestedRelationships"`
	Confidence             *float64                `json:"confidence,omitempty"`
	NeedsReview            *bool                   `json:"needsReview,omitempty"`
}

// IsEmpty returns true if no field is overridden.
func (e ClassificationEdit) IsEmpty() bool {
	return e.ObjectType == nil && e.ObjectName == nil && e.Tags == nil &&
		e.SuggestedRelationships == nil && e.Confidence == nil && e.NeedsReview == nil
}

// Clone returns a deep copy of the edit, pointees included.
func (e ClassificationEdit) Clone() ClassificationEdit {
	return ClassificationEdit{}.Merge(e)
}

// Merge returns e with every field set in other replacing the same field in e.
// Values are copied out of other, so the result shares no memory with it.
func (e ClassificationEdit) Merge(other ClassificationEdit) ClassificationEdit {
	if other.ObjectType != nil {
		e.ObjectType = clonePtr(other.ObjectType)
	}
	if other.ObjectName != nil {
		e.ObjectName = clonePtr(other.ObjectName)
	}
	if other.Tags != nil {
		e.Tags = cloneStrings(other.Tags)
	}
	if other.SuggestedRelationships != nil {
		e.SuggestedRelationships = append([]SuggestedRelationship{}, other.SuggestedRelationships...)
	}
	if other.Confidence != nil {
		e.Confidence = clonePtr(other.Confidence)
	}
	if other.NeedsReview != nil {
		e.NeedsReview = clonePtr(other.NeedsReview)
	}
	return e
}

// Apply returns a copy of r with every overridden field of edit applied.
// Array fields are replaced, not merged.
func (r ClassificationResult) Apply(edit ClassificationEdit) ClassificationResult {
	out := r.Clone()
	if edit.ObjectType != nil {
		out.ObjectType = *edit.ObjectType
	}
	if edit.ObjectName != nil {
		out.ObjectName = *edit.ObjectName
	}
	if edit.Tags != nil {
		out.Tags = cloneStrings(edit.Tags)
	}
	if edit.SuggestedRelationships != nil {
		out.SuggestedRelationships = append([]SuggestedRelationship{}, edit.SuggestedRelationships...)
	}
	if edit.Confidence != nil {
		out.Confidence = *edit.Confidence
	}
	if edit.NeedsReview != nil {
		out.NeedsReview = *edit.NeedsReview
	}
	return out
}

// EffectiveClassification merges edit onto base. It returns nil when there
// is no base classification, whatever the edit holds.
func EffectiveClassification(base *ClassificationResult, edit *ClassificationEdit) *ClassificationResult {
	if base == nil {
		return nil
	}
	if edit == nil {
		out := base.Clone()
		return &out
	}
	out := base.Apply(*edit)
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
