package api

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// uploadField is the multipart field carrying the files.
const uploadField = "files"

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleUpload parses a multipart batch and opens a session for it.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewError(fiber.StatusBadRequest, "expected multipart form with field \""+uploadField+"\"")
	}

	files, err := readFiles(form.File[uploadField])
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	batch, err := s.ports.Parser.ParseBatch(ctx, files, s.limits)
	if err != nil {
		return err
	}

	sess, err := s.ports.Sessions.Create(ctx, batch.Documents)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(uploadResponse{
		SessionID: sess.ID,
		Documents: batch.Documents,
		Errors:    nonNil(batch.Errors),
		ExpiresAt: sess.ExpiresAt,
	})
}

func readFiles(headers []*multipart.FileHeader) ([]domain.UploadedFile, error) {
	files := make([]domain.UploadedFile, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", h.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", h.Filename, err)
		}
		files = append(files, domain.UploadedFile{
			Filename: h.Filename,
			MIMEType: h.Header.Get(fiber.HeaderContentType),
			Content:  data,
		})
	}
	return files, nil
}

func (s *Server) handleListSessions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"sessions": s.ports.Sessions.List(c.UserContext())})
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	sess, err := s.ports.Sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(newSessionResponse(sess))
}

func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	if err := s.ports.Sessions.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleGetDocument(c *fiber.Ctx) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}
	result, err := s.ports.Sessions.Effective(c.UserContext(), c.Params("id"), index)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (s *Server) handleEditDocument(c *fiber.Ctx) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}

	var req editRequest
	if err := c.BodyParser(&req); err != nil {
		return NewError(fiber.StatusBadRequest, "invalid JSON request")
	}
	if fields := validateStruct(req); fields != nil {
		return NewValidationError(fields)
	}

	result, err := s.ports.Sessions.Edit(c.UserContext(), c.Params("id"), index, req.toEdit())
	if err != nil {
		return err
	}
	// result is nil while the document has not been classified
	return c.JSON(fiber.Map{"index": index, "classification": result})
}

func (s *Server) handleReclassify(c *fiber.Ctx) error {
	index, err := indexParam(c)
	if err != nil {
		return err
	}
	result, err := s.ports.Review.Reclassify(c.UserContext(), c.Params("id"), index)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"index": index, "classification": result})
}

// handleApprove always answers 200 once the session is found: per-document
// failures are part of the result.
func (s *Server) handleApprove(c *fiber.Ctx) error {
	var req approveRequest
	if err := c.BodyParser(&req); err != nil {
		return NewError(fiber.StatusBadRequest, "invalid JSON request")
	}
	if fields := validateStruct(req); fields != nil {
		return NewValidationError(fields)
	}

	result, err := s.ports.Review.Approve(c.UserContext(), domain.ApproveRequest{
		SessionID: c.Params("id"),
		Indexes:   req.Indexes,
		Submitter: req.Submitter,
		Overrides: req.Overrides,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func indexParam(c *fiber.Ctx) (int, error) {
	index, err := c.ParamsInt("index")
	if err != nil {
		return 0, NewError(fiber.StatusBadRequest, "document index must be an integer")
	}
	return index, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
