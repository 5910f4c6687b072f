package mcp

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// CreateSessionInput is the input schema for the create_session tool.
type CreateSessionInput struct {
	Paths []string `json:"paths" jsonschema:"local paths of the documents to upload (md, txt, pdf, docx)"`
}

// DocumentOutput summarises one parsed document.
type DocumentOutput struct {
	Index     int      `json:"index"`
	Filename  string   `json:"filename"`
	Format    string   `json:"format"`
	WordCount int      `json:"word_count"`
	Errors    []string `json:"errors,omitempty"`
}

// CreateSessionOutput is the output schema for the create_session tool.
type CreateSessionOutput struct {
	SessionID string           `json:"session_id"`
	Documents []DocumentOutput `json:"documents"`
	Errors    []string         `json:"errors,omitempty"`
}

// SessionInput addresses one session.
type SessionInput struct {
	SessionID string `json:"session_id" jsonschema:"the upload session ID"`
}

// ClassifyOutput is the output schema for the classify_session tool.
type ClassifyOutput struct {
	Results    []ResultOutput `json:"results"`
	Total      int            `json:"total"`
	Classified int            `json:"classified"`
	Failed     int            `json:"failed"`
}

// ResultOutput is the outcome for one document.
type ResultOutput struct {
	Index          int                          `json:"index"`
	Filename       string                       `json:"filename"`
	Classification *domain.ClassificationResult `json:"classification,omitempty"`
	Error          string                       `json:"error,omitempty"`
}

// DocumentInput addresses one document of a session.
type DocumentInput struct {
	SessionID string `json:"session_id" jsonschema:"the upload session ID"`
	Index     int    `json:"index" jsonschema:"zero-based document index within the session"`
}

// EditInput is the input schema for the edit_classification tool.
type EditInput struct {
	SessionID  string   `json:"session_id" jsonschema:"the upload session ID"`
	Index      int      `json:"index" jsonschema:"zero-based document index within the session"`
	ObjectType string   `json:"object_type,omitempty" jsonschema:"new object type: persona, segment, use_case, business_rule or icp"`
	ObjectName string   `json:"object_name,omitempty" jsonschema:"new object name"`
	Tags       []string `json:"tags,omitempty" jsonschema:"replacement tag list"`
}

// ClassificationOutput wraps a single classification.
type ClassificationOutput struct {
	Index          int                          `json:"index"`
	Classification *domain.ClassificationResult `json:"classification"`
}

// ApproveInput is the input schema for the approve_documents tool.
type ApproveInput struct {
	SessionID string `json:"session_id" jsonschema:"the upload session ID"`
	Indexes   []int  `json:"indexes" jsonschema:"document indexes to submit"`
	Submitter string `json:"submitter" jsonschema:"who is submitting the documents"`
}

// SessionOutput is the listing view of one session.
type SessionOutput struct {
	SessionID   string `json:"session_id"`
	Status      string `json:"status"`
	Documents   int    `json:"documents"`
	Classified  int    `json:"classified"`
	NeedsReview int    `json:"needs_review"`
	ExpiresAt   string `json:"expires_at"`
}

// ListSessionsOutput is the output schema for the list_sessions tool.
type ListSessionsOutput struct {
	Sessions []SessionOutput `json:"sessions"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_session",
		Description: "Parse local documents and open an upload session for them",
	}, s.handleCreateSession)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_session",
		Description: "Classify every document of a session into knowledge objects",
	}, s.handleClassifySession)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List live upload sessions",
	}, s.handleListSessions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_classification",
		Description: "Override fields of one document's classification",
	}, s.handleEdit)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reclassify_document",
		Description: "Classify one document again, discarding its edits",
	}, s.handleReclassify)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "approve_documents",
		Description: "Submit classified documents to the review queue",
	}, s.handleApprove)
}

// handleCreateSession reads the files, parses them as one batch and opens a session.
func (s *Server) handleCreateSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateSessionInput,
) (*mcp.CallToolResult, CreateSessionOutput, error) {
	if s.ports.Parser == nil {
		return nil, CreateSessionOutput{}, ErrUnavailable
	}

	files := make([]domain.UploadedFile, 0, len(input.Paths))
	for _, p := range input.Paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, CreateSessionOutput{}, fmt.Errorf("reading %s: %w", p, err)
		}
		files = append(files, domain.UploadedFile{Filename: p, Content: data})
	}

	batch, err := s.ports.Parser.ParseBatch(ctx, files, s.ports.Limits)
	if err != nil {
		return nil, CreateSessionOutput{}, err
	}
	sess, err := s.ports.Sessions.Create(ctx, batch.Documents)
	if err != nil {
		return nil, CreateSessionOutput{}, err
	}

	out := CreateSessionOutput{
		SessionID: sess.ID,
		Documents: make([]DocumentOutput, len(batch.Documents)),
		Errors:    batch.Errors,
	}
	for i, d := range batch.Documents {
		out.Documents[i] = DocumentOutput{
			Index:     i,
			Filename:  d.Filename,
			Format:    d.Format.String(),
			WordCount: d.WordCount,
			Errors:    d.Errors,
		}
	}
	return nil, out, nil
}

// handleClassifySession drains the classification stream into one result.
func (s *Server) handleClassifySession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	if s.ports.Streamer == nil {
		return nil, ClassifyOutput{}, ErrUnavailable
	}

	events, err := s.ports.Streamer.Stream(ctx, input.SessionID)
	if err != nil {
		return nil, ClassifyOutput{}, err
	}

	out := ClassifyOutput{Results: []ResultOutput{}}
	for ev := range events {
		switch ev.Kind {
		case domain.EventResult:
			out.Results = append(out.Results, ResultOutput{
				Index:          ev.Index,
				Filename:       ev.Filename,
				Classification: ev.Classification,
			})
		case domain.EventError:
			out.Results = append(out.Results, ResultOutput{
				Index:    ev.Index,
				Filename: ev.Filename,
				Error:    ev.Message,
			})
		case domain.EventDone:
			out.Total = ev.Total
			out.Classified = ev.Classified
			out.Failed = ev.Failed
		}
	}
	return nil, out, nil
}

func (s *Server) handleListSessions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListSessionsOutput, error) {
	summaries := s.ports.Sessions.List(ctx)
	out := ListSessionsOutput{Sessions: make([]SessionOutput, len(summaries))}
	for i, sum := range summaries {
		out.Sessions[i] = SessionOutput{
			SessionID:   sum.ID,
			Status:      string(sum.Status),
			Documents:   sum.Documents,
			Classified:  sum.Classified,
			NeedsReview: sum.NeedsReview,
			ExpiresAt:   sum.ExpiresAt.Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

func (s *Server) handleEdit(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditInput,
) (*mcp.CallToolResult, ClassificationOutput, error) {
	var edit domain.ClassificationEdit
	if input.ObjectType != "" {
		t := domain.KnowledgeType(input.ObjectType)
		edit.ObjectType = &t
	}
	if input.ObjectName != "" {
		edit.ObjectName = &input.ObjectName
	}
	edit.Tags = input.Tags

	if edit.IsEmpty() {
		return nil, ClassificationOutput{}, fmt.Errorf("%w: nothing to edit", domain.ErrInvalidInput)
	}

	result, err := s.ports.Sessions.Edit(ctx, input.SessionID, input.Index, edit)
	if err != nil {
		return nil, ClassificationOutput{}, err
	}
	return nil, ClassificationOutput{Index: input.Index, Classification: result}, nil
}

func (s *Server) handleReclassify(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, ClassificationOutput, error) {
	if s.ports.Review == nil {
		return nil, ClassificationOutput{}, ErrUnavailable
	}
	result, err := s.ports.Review.Reclassify(ctx, input.SessionID, input.Index)
	if err != nil {
		return nil, ClassificationOutput{}, err
	}
	return nil, ClassificationOutput{Index: input.Index, Classification: result}, nil
}

func (s *Server) handleApprove(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ApproveInput,
) (*mcp.CallToolResult, domain.ApproveResult, error) {
	if s.ports.Review == nil {
		return nil, domain.ApproveResult{}, ErrUnavailable
	}
	submitter := input.Submitter
	if submitter == "" {
		submitter = "mcp"
	}
	result, err := s.ports.Review.Approve(ctx, domain.ApproveRequest{
		SessionID: input.SessionID,
		Indexes:   input.Indexes,
		Submitter: submitter,
	})
	if err != nil {
		return nil, domain.ApproveResult{}, err
	}
	return nil, *result, nil
}
