// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Extracts text from one document format
//   - NormaliserRegistry: Selects the normaliser for an upload
//   - SessionStore: Time-bounded registry of upload sessions
//   - KnowledgeStore: Read access to existing knowledge objects
//   - SubmissionStore: Creates review-queue submissions
//   - LLMService: The classification oracle
//   - ConfigStore: Application configuration
//   - PromptStore: User-editable prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TokenCounter: Counts prompt tokens for logging and metrics.
//   - PipelineMetrics: Records pipeline counters. A nil recorder records nothing.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
