package domain

import "strings"

// KnowledgeType identifies the kind of a knowledge object.
type KnowledgeType string

// Knowledge object types.
const (
	KnowledgeTypePersona      KnowledgeType = "persona"
	KnowledgeTypeSegment      KnowledgeType = "segment"
	KnowledgeTypeUseCase      KnowledgeType = "use_case"
	KnowledgeTypeBusinessRule KnowledgeType = "business_rule"
	KnowledgeTypeICP          KnowledgeType = "icp"
)

// KnowledgeTypes returns every valid type in taxonomy order.
func KnowledgeTypes() []KnowledgeType {
	return []KnowledgeType{
		KnowledgeTypePersona,
		KnowledgeTypeSegment,
		KnowledgeTypeUseCase,
		KnowledgeTypeBusinessRule,
		KnowledgeTypeICP,
	}
}

// KnowledgeTypeNames returns the valid type names joined for messages.
func KnowledgeTypeNames() string {
	types := KnowledgeTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// IsValid returns true if the type is recognised.
func (t KnowledgeType) IsValid() bool {
	switch t {
	case KnowledgeTypePersona, KnowledgeTypeSegment, KnowledgeTypeUseCase,
		KnowledgeTypeBusinessRule, KnowledgeTypeICP:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t KnowledgeType) String() string {
	return string(t)
}

// Description returns a human-readable description used in prompts.
func (t KnowledgeType) Description() string {
	switch t {
	case KnowledgeTypePersona:
		return "A buyer or user persona: role, goals, pain points and how they evaluate solutions"
	case KnowledgeTypeSegment:
		return "A market segment: industry, company size or region grouping with shared needs"
	case KnowledgeTypeUseCase:
		return "A use case: a concrete problem the product solves and the outcome it delivers"
	case KnowledgeTypeBusinessRule:
		return "A business rule: a policy, constraint or guideline content must follow"
	case KnowledgeTypeICP:
		return "An ideal customer profile: the firmographic and behavioural traits of the best-fit customer"
	default:
		return unknownDescription
	}
}

// KnowledgeObject is an existing record in the knowledge base.
// Only the fields needed for classification are carried.
type KnowledgeObject struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Type       KnowledgeType `json:"type"`
	Tags       []string      `json:"tags"`
	Deprecated bool          `json:"deprecated"`
}

// RelationshipType names the kind of a suggested relationship.
type RelationshipType string

// Relationship types the model may propose.
const (
	RelationshipBelongsTo RelationshipType = "belongs_to"
	RelationshipTargets   RelationshipType = "targets"
	RelationshipUses      RelationshipType = "uses"
	RelationshipGoverns   RelationshipType = "governs"
	RelationshipRelatedTo RelationshipType = "related_to"
)

// RelationshipTypes returns the whitelist of relationship types.
func RelationshipTypes() []RelationshipType {
	return []RelationshipType{
		RelationshipBelongsTo,
		RelationshipTargets,
		RelationshipUses,
		RelationshipGoverns,
		RelationshipRelatedTo,
	}
}

// IsValid returns true if the relationship type is whitelisted.
func (r RelationshipType) IsValid() bool {
	for _, t := range RelationshipTypes() {
		if r == t {
			return true
		}
	}
	return false
}
