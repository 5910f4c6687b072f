package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseResult() ClassificationResult {
	return ClassificationResult{
		Filename:   "personas.md",
		ObjectType: KnowledgeTypePersona,
		ObjectName: "IT Director",
		Tags:       []string{"it", "enterprise"},
		SuggestedRelationships: []SuggestedRelationship{
			{TargetID: "seg-1", TargetName: "Enterprise", TargetType: KnowledgeTypeSegment, RelationshipType: RelationshipBelongsTo},
		},
		Confidence:  0.6,
		NeedsReview: true,
	}
}

func TestEffectiveClassification_NoBase(t *testing.T) {
	name := "Anything"
	assert.Nil(t, EffectiveClassification(nil, nil))
	assert.Nil(t, EffectiveClassification(nil, &ClassificationEdit{ObjectName: &name}))
}

func TestEffectiveClassification_IdentityWithoutEdit(t *testing.T) {
	base := baseResult()

	got := EffectiveClassification(&base, nil)
	require.NotNil(t, got)
	assert.Equal(t, base, *got)

	empty := ClassificationEdit{}
	got = EffectiveClassification(&base, &empty)
	require.NotNil(t, got)
	assert.Equal(t, base, *got)
}

func TestEffectiveClassification_EditWinsFieldByField(t *testing.T) {
	base := baseResult()
	name := "CIO"
	typ := KnowledgeTypeICP
	edit := ClassificationEdit{ObjectName: &name, ObjectType: &typ}

	got := EffectiveClassification(&base, &edit)
	require.NotNil(t, got)

	assert.Equal(t, "CIO", got.ObjectName)
	assert.Equal(t, KnowledgeTypeICP, got.ObjectType)
	assert.Equal(t, base.Tags, got.Tags)
	assert.Equal(t, base.SuggestedRelationships, got.SuggestedRelationships)
	assert.Equal(t, base.Confidence, got.Confidence)
	assert.True(t, got.NeedsReview, "needsReview is not re-derived after edits")
}

func TestEffectiveClassification_TagsReplaceNotMerge(t *testing.T) {
	base := baseResult()

	got := EffectiveClassification(&base, &ClassificationEdit{Tags: []string{"cio"}})
	assert.Equal(t, []string{"cio"}, got.Tags)

	got = EffectiveClassification(&base, &ClassificationEdit{Tags: []string{}})
	assert.Empty(t, got.Tags)
	assert.NotNil(t, got.Tags)
}

func TestEffectiveClassification_DoesNotAliasBase(t *testing.T) {
	base := baseResult()

	got := EffectiveClassification(&base, nil)
	got.Tags[0] = "changed"

	assert.Equal(t, "it", base.Tags[0])
}

func TestClassificationEdit_Merge(t *testing.T) {
	first, second := "First", "Second"
	conf := 0.9

	existing := ClassificationEdit{ObjectName: &first, Tags: []string{"a"}}
	merged := existing.Merge(ClassificationEdit{ObjectName: &second, Confidence: &conf})

	require.NotNil(t, merged.ObjectName)
	assert.Equal(t, "Second", *merged.ObjectName)
	assert.Equal(t, []string{"a"}, merged.Tags, "fields absent from the new edit survive")
	require.NotNil(t, merged.Confidence)
	assert.Equal(t, 0.9, *merged.Confidence)
}

func TestClassificationEdit_IsEmpty(t *testing.T) {
	assert.True(t, ClassificationEdit{}.IsEmpty())
	assert.False(t, ClassificationEdit{Tags: []string{}}.IsEmpty())
}

func TestKnowledgeType_IsValid(t *testing.T) {
	for _, kt := range KnowledgeTypes() {
		assert.True(t, kt.IsValid(), kt)
		assert.NotEqual(t, "Unknown", kt.Description())
	}
	assert.False(t, KnowledgeType("Persona").IsValid())
	assert.False(t, KnowledgeType("").IsValid())
	assert.Equal(t, "persona, segment, use_case, business_rule, icp", KnowledgeTypeNames())
}

func TestRelationshipType_IsValid(t *testing.T) {
	assert.True(t, RelationshipRelatedTo.IsValid())
	assert.True(t, RelationshipType("targets").IsValid())
	assert.False(t, RelationshipType("owns").IsValid())
}
