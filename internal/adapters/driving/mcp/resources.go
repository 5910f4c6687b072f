package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for pipeline resources.
	uriScheme = "content-automation://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sessions",
		Name:        "sessions",
		Description: "Live upload sessions",
		MIMEType:    "application/json",
	}, s.handleSessionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}",
		Name:        "session",
		Description: "An upload session with its documents, classifications and edits",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}/documents/{index}",
		Name:        "document-content",
		Description: "Extracted text of one document of a session",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

func (s *Server) handleSessionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.ports.Sessions.List(ctx), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sessions: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, index := parseSessionURI(req.Params.URI)
	if id == "" || index >= 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sess, err := s.ports.Sessions.Get(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling session: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, index := parseSessionURI(req.Params.URI)
	if id == "" || index < 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sess, err := s.ports.Sessions.Get(ctx, id)
	if err != nil || !sess.ValidIndex(index) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     sess.Documents[index].Content,
		}},
	}, nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// parseSessionURI splits content-automation://sessions/{id}[/documents/{index}].
// index is -1 when the URI names the session itself; id is empty when the
// URI is malformed.
func parseSessionURI(uri string) (id string, index int) {
	const prefix = uriScheme + "sessions/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok || rest == "" {
		return "", -1
	}

	id, doc, hasDoc := strings.Cut(rest, "/documents/")
	if !hasDoc {
		if strings.Contains(id, "/") {
			return "", -1
		}
		return id, -1
	}

	n, err := strconv.Atoi(doc)
	if err != nil || n < 0 || id == "" {
		return "", -1
	}
	return id, n
}
