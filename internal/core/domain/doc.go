// Package domain defines the core business entities for the content automation
// pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - UploadedFile: Opaque bytes received from a caller
//   - ParsedDocument: Normalised text extracted from one uploaded file
//   - UploadSession: Server-held state for one upload batch
//   - ClassificationResult: The model's proposed knowledge-object mapping
//   - KnowledgeObject: An existing record in the knowledge base
//   - Submission: A reviewable proposal handed to the review queue
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
