package domain

import "time"

// SubmissionType describes what a submission proposes.
type SubmissionType string

// Submission types.
const (
	SubmissionTypeCreate SubmissionType = "create"
	SubmissionTypeUpdate SubmissionType = "update"
)

// SubmissionRequest is the input to the external submission store.
type SubmissionRequest struct {
	Submitter       string         `json:"submitter"`
	ObjectType      KnowledgeType  `json:"objectType"`
	ObjectName      string         `json:"objectName"`
	SubmissionType  SubmissionType `json:"submissionType"`
	ProposedContent map[string]any `json:"proposedContent"`
}

// Submission is a durable, reviewable proposal in the review queue.
type Submission struct {
	ID              string         `json:"id"`
	Submitter       string         `json:"submitter"`
	ObjectType      KnowledgeType  `json:"objectType"`
	ObjectName      string         `json:"objectName"`
	SubmissionType  SubmissionType `json:"submissionType"`
	ProposedContent map[string]any `json:"proposedContent"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// SubmissionStatusPending is the status of a newly created submission.
const SubmissionStatusPending = "pending"

// ApproveRequest selects documents of a session to submit.
type ApproveRequest struct {
	SessionID string
	Indexes   []int
	Submitter string

	// Overrides are applied on top of any stored human edit for the index.
	Overrides map[int]ClassificationEdit
}

// ApprovedSubmission pairs a document index with its new submission.
type ApprovedSubmission struct {
	Index        int    `json:"index"`
	SubmissionID string `json:"submissionId"`
}

// ApprovalError records why one document could not be submitted.
type ApprovalError struct {
	Index   int    `json:"index"`
	Message string `json:"error"`
}

// ApproveResult is the full accounting of an approval batch.
// Both lists are always present, possibly empty.
type ApproveResult struct {
	Submissions []ApprovedSubmission `json:"submissions"`
	Errors      []ApprovalError      `json:"errors"`
}
