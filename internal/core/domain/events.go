package domain

// EventKind tags a ClassificationEvent.
type EventKind string

// Event kinds emitted while a batch is classified.
const (
	EventProgress EventKind = "progress"
	EventResult   EventKind = "result"
	EventError    EventKind = "error"
	EventDone     EventKind = "done"
)

// ClassificationEvent is one entry of the classification stream.
// Which fields are set depends on Kind:
//
//   - progress: Index, Total, Filename
//   - result:   Index, Filename, Classification
//   - error:    Index, Filename, Message
//   - done:     Total, Classified, Failed
type ClassificationEvent struct {
	Kind           EventKind             `json:"type"`
	Index          int                   `json:"index"`
	Total          int                   `json:"total,omitempty"`
	Filename       string                `json:"filename,omitempty"`
	Classification *ClassificationResult `json:"classification,omitempty"`
	Message        string                `json:"message,omitempty"`
	Classified     int                   `json:"classified,omitempty"`
	Failed         int                   `json:"failed,omitempty"`
}

// ProgressEvent reports that document index is about to be classified.
func ProgressEvent(index, total int, filename string) ClassificationEvent {
	return ClassificationEvent{Kind: EventProgress, Index: index, Total: total, Filename: filename}
}

// ResultEvent reports a successful classification.
func ResultEvent(index int, filename string, result ClassificationResult) ClassificationEvent {
	return ClassificationEvent{Kind: EventResult, Index: index, Filename: filename, Classification: &result}
}

// ErrorEvent reports a failed classification.
func ErrorEvent(index int, filename, message string) ClassificationEvent {
	return ClassificationEvent{Kind: EventError, Index: index, Filename: filename, Message: message}
}

// DoneEvent terminates the stream.
func DoneEvent(total, classified, failed int) ClassificationEvent {
	return ClassificationEvent{Kind: EventDone, Total: total, Classified: classified, Failed: failed}
}
