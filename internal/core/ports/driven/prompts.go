package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptClassificationSystem is the instruction block of the classification
	// system prompt. It has no format placeholders; the type taxonomy,
	// inventory and output format are appended after it.
	PromptClassificationSystem = "classification_system"

	// PromptClassificationFormat is the strict output-format block.
	// The template expects one %s placeholder for the relationship-type list.
	PromptClassificationFormat = "classification_format"
)

// DefaultPrompts holds the built-in template for every well-known prompt.
// File-backed stores seed user-editable copies from it and services fall
// back to it when no store is configured.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var DefaultPrompts = map[string]string{
	PromptClassificationSystem: `You are a content librarian for a B2B knowledge base. You read one document and decide which kind of knowledge object it describes.

Guidelines:
1. Pick exactly one object type from the list below, the one the document is mostly about.
2. Give the object a short, specific name as it would appear in the knowledge base.
3. Add a handful of lowercase tags that would help someone find the object later.
4. Suggest relationships only to existing objects listed in the inventory, using their exact names and types.
5. Report how confident you are. Use lower values when the document mixes several topics or is too short to judge.`,

	PromptClassificationFormat: `## Output format
Respond with a single JSON object and nothing else:
{
  "objectType": "<one of the object types above>",
  "objectName": "<name of the knowledge object>",
  "tags": ["<tag>"],
  "suggestedRelationships": [
    {"targetName": "<existing object name>", "targetType": "<existing object type>", "relationshipType": "<relationship type>"}
  ],
  "confidence": <number from 0 to 1>
}
relationshipType must be one of: %s.
Use an empty list when no existing object is related.`,
}

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
