package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driving"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// Ensure ClassifierService implements the interfaces.
var (
	_ driving.Classifier      = (*ClassifierService)(nil)
	_ driven.PromptStoreAware = (*ClassifierService)(nil)
)

// classificationMaxTokens bounds the model's reply; the JSON object is small.
const classificationMaxTokens = 1024

// ClassifierService asks the LLM to classify one document at a time.
type ClassifierService struct {
	llm       driven.LLMService
	threshold float64
	metrics   driven.PipelineMetrics
	prompts   driven.PromptStore
	tokens    driven.TokenCounter
}

// NewClassifierService creates a classifier. A threshold outside (0, 1]
// falls back to domain.DefaultConfidenceThreshold.
func NewClassifierService(llm driven.LLMService, threshold float64, metrics driven.PipelineMetrics) *ClassifierService {
	if threshold <= 0 || threshold > 1 {
		threshold = domain.DefaultConfidenceThreshold
	}
	return &ClassifierService{
		llm:       llm,
		threshold: threshold,
		metrics:   metricsOrNop(metrics),
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *ClassifierService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetTokenCounter enables prompt size accounting.
func (s *ClassifierService) SetTokenCounter(counter driven.TokenCounter) {
	s.tokens = counter
}

// Threshold returns the confidence below which results need review.
func (s *ClassifierService) Threshold() float64 {
	return s.threshold
}

// Classify sends the document to the LLM and validates its answer.
func (s *ClassifierService) Classify(
	ctx context.Context,
	doc domain.ParsedDocument,
	existing []domain.KnowledgeObject,
) (*domain.ClassificationResult, error) {
	if s.llm == nil {
		s.metrics.ClassificationFailed("unavailable")
		return nil, domain.NewClassificationError(doc.Filename, domain.ErrLLMUnavailable)
	}

	system := s.BuildSystemPrompt(existing)
	user := BuildUserMessage(doc)
	if s.tokens != nil {
		n := s.tokens.Count(system) + s.tokens.Count(user)
		s.metrics.PromptTokens(n)
		logger.Debug("Classifying %s: prompt is %d tokens", doc.Filename, n)
	}

	start := time.Now()
	raw, err := s.llm.Complete(ctx, system, user, driven.CompletionOptions{
		MaxTokens:   classificationMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		s.metrics.ClassificationFailed("llm")
		return nil, domain.NewClassificationError(doc.Filename, err)
	}

	parsed, err := ParseClassificationJSON(raw)
	if err != nil {
		s.metrics.ClassificationFailed("invalid_response")
		logger.Debug("Rejected response for %s: %v", doc.Filename, err)
		return nil, domain.NewClassificationError(doc.Filename, err)
	}

	result := &domain.ClassificationResult{
		Filename:               doc.Filename,
		ObjectType:             parsed.ObjectType,
		ObjectName:             parsed.ObjectName,
		Tags:                   parsed.Tags,
		SuggestedRelationships: ResolveRelationships(parsed.Relationships, existing),
		Confidence:             parsed.Confidence,
		NeedsReview:            parsed.Confidence < s.threshold,
	}

	elapsed := time.Since(start)
	s.metrics.ClassificationSucceeded(result.ObjectType, result.NeedsReview, elapsed)
	logger.Debug("Classified %s as %s %q (confidence %.2f) in %s",
		doc.Filename, result.ObjectType, result.ObjectName, result.Confidence, elapsed.Round(time.Millisecond))
	return result, nil
}

// BuildSystemPrompt renders the instructions, the type taxonomy, the
// inventory of live objects and the output format.
func (s *ClassifierService) BuildSystemPrompt(existing []domain.KnowledgeObject) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(s.loadPrompt(driven.PromptClassificationSystem)))
	b.WriteString("\n\n## Knowledge object types\n")
	for _, t := range domain.KnowledgeTypes() {
		fmt.Fprintf(&b, "- %s: %s\n", t, t.Description())
	}

	b.WriteString("\n## Existing knowledge objects\n")
	byType := groupLiveObjects(existing)
	for _, t := range domain.KnowledgeTypes() {
		fmt.Fprintf(&b, "### %s\n", t)
		objs := byType[t]
		if len(objs) == 0 {
			b.WriteString("(none)\n")
			continue
		}
		for _, obj := range objs {
			if len(obj.Tags) > 0 {
				fmt.Fprintf(&b, "- %s [%s]\n", obj.Name, strings.Join(obj.Tags, ", "))
			} else {
				fmt.Fprintf(&b, "- %s\n", obj.Name)
			}
		}
	}

	rels := make([]string, 0, len(domain.RelationshipTypes()))
	for _, r := range domain.RelationshipTypes() {
		rels = append(rels, string(r))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, strings.TrimSpace(s.loadPrompt(driven.PromptClassificationFormat)), strings.Join(rels, ", "))

	return b.String()
}

// BuildUserMessage renders the document for the model.
func BuildUserMessage(doc domain.ParsedDocument) string {
	return fmt.Sprintf("Filename: %s\nFormat: %s\nWord count: %d\n\nContent:\n%s",
		doc.Filename, doc.Format, doc.WordCount, doc.Content)
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *ClassifierService) loadPrompt(name string) string {
	fallback := driven.DefaultPrompts[name]
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// groupLiveObjects drops deprecated objects and groups the rest by type.
func groupLiveObjects(objs []domain.KnowledgeObject) map[domain.KnowledgeType][]domain.KnowledgeObject {
	out := make(map[domain.KnowledgeType][]domain.KnowledgeObject)
	for _, obj := range objs {
		if obj.Deprecated {
			continue
		}
		out[obj.Type] = append(out[obj.Type], obj)
	}
	return out
}

// RawRelationship is a relationship as proposed by the model, before resolution.
type RawRelationship struct {
	TargetName       string
	TargetType       string
	RelationshipType string
}

// ParsedClassification is a validated model response.
type ParsedClassification struct {
	ObjectType    domain.KnowledgeType
	ObjectName    string
	Tags          []string
	Relationships []RawRelationship
	Confidence    float64
}

// ParseClassificationJSON validates a raw model response. The required
// fields objectType, objectName and confidence fail with an error naming
// the field. Malformed tags and relationships are filtered out.
func ParseClassificationJSON(raw string) (*ParsedClassification, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &obj); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if obj == nil {
		return nil, errors.New("response is not a JSON object")
	}

	objectType, ok := nonEmptyString(obj["objectType"])
	if !ok {
		return nil, errors.New("objectType is required and must be a non-empty string")
	}
	objectName, ok := nonEmptyString(obj["objectName"])
	if !ok {
		return nil, errors.New("objectName is required and must be a non-empty string")
	}
	confidence, ok := obj["confidence"].(float64)
	if !ok {
		return nil, errors.New("confidence is required and must be a number")
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("confidence must be between 0 and 1, got %v", confidence)
	}

	kt := domain.KnowledgeType(objectType)
	if !kt.IsValid() {
		return nil, fmt.Errorf("invalid objectType %q: must be one of %s", objectType, domain.KnowledgeTypeNames())
	}

	return &ParsedClassification{
		ObjectType:    kt,
		ObjectName:    objectName,
		Tags:          filterTags(obj["tags"]),
		Relationships: filterRelationships(obj["suggestedRelationships"]),
		Confidence:    confidence,
	}, nil
}

// ResolveRelationships keeps suggestions whose target matches a live object
// by name (case-insensitive) and type (exact). Unknown relationship types
// become related_to.
func ResolveRelationships(raw []RawRelationship, existing []domain.KnowledgeObject) []domain.SuggestedRelationship {
	out := []domain.SuggestedRelationship{}
	for _, r := range raw {
		target, ok := findObject(existing, r.TargetName, domain.KnowledgeType(r.TargetType))
		if !ok {
			continue
		}
		out = append(out, relate(target, domain.RelationshipType(r.RelationshipType)))
	}
	return out
}

// ResolveEdited re-resolves relationships supplied by a reviewer. An entry
// with a TargetID must name a live object and takes that object's name and
// type; one without is looked up by name and type. Entries matching nothing
// are dropped, so stored relationships always point at real objects.
func ResolveEdited(rels []domain.SuggestedRelationship, existing []domain.KnowledgeObject) []domain.SuggestedRelationship {
	out := []domain.SuggestedRelationship{}
	for _, r := range rels {
		var (
			target domain.KnowledgeObject
			ok     bool
		)
		if id := strings.TrimSpace(r.TargetID); id != "" {
			target, ok = findObjectByID(existing, id)
		} else {
			target, ok = findObject(existing, r.TargetName, r.TargetType)
		}
		if !ok {
			logger.Debug("Dropping relationship to unknown target id=%q name=%q", r.TargetID, r.TargetName)
			continue
		}
		out = append(out, relate(target, r.RelationshipType))
	}
	return out
}

// relate builds a relationship to target. Off-list types become related_to.
func relate(target domain.KnowledgeObject, relType domain.RelationshipType) domain.SuggestedRelationship {
	if !relType.IsValid() {
		relType = domain.RelationshipRelatedTo
	}
	return domain.SuggestedRelationship{
		TargetID:         target.ID,
		TargetName:       target.Name,
		TargetType:       target.Type,
		RelationshipType: relType,
	}
}

func findObject(objs []domain.KnowledgeObject, name string, typ domain.KnowledgeType) (domain.KnowledgeObject, bool) {
	name = strings.TrimSpace(name)
	for _, obj := range objs {
		if obj.Deprecated || obj.Type != typ {
			continue
		}
		if strings.EqualFold(obj.Name, name) {
			return obj, true
		}
	}
	return domain.KnowledgeObject{}, false
}

func findObjectByID(objs []domain.KnowledgeObject, id string) (domain.KnowledgeObject, bool) {
	for _, obj := range objs {
		if !obj.Deprecated && obj.ID == id {
			return obj, true
		}
	}
	return domain.KnowledgeObject{}, false
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func filterTags(v any) []string {
	tags := []string{}
	list, ok := v.([]any)
	if !ok {
		return tags
	}
	for _, item := range list {
		if s, ok := nonEmptyString(item); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

func filterRelationships(v any) []RawRelationship {
	var out []RawRelationship
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, ok := nonEmptyString(m["targetName"])
		if !ok {
			continue
		}
		typ, _ := m["targetType"].(string)
		rel, _ := m["relationshipType"].(string)
		out = append(out, RawRelationship{
			TargetName:       name,
			TargetType:       strings.TrimSpace(typ),
			RelationshipType: strings.TrimSpace(rel),
		})
	}
	return out
}
