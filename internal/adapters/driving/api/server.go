package api

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// multipart framing on top of the batch size limit
const bodySlack = 1 << 20

// Server is the HTTP front end of the pipeline.
type Server struct {
	ports  *Ports
	limits domain.BatchLimits
	app    *fiber.App
}

// NewServer creates the server and registers its routes.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	limits := ports.Limits.WithDefaults()
	s := &Server{
		ports:  ports,
		limits: limits,
		app: fiber.New(fiber.Config{
			AppName:               "content-automation",
			ErrorHandler:          ErrorHandler,
			BodyLimit:             int(limits.MaxBatchSize) + bodySlack,
			DisableStartupMessage: true,
		}),
	}

	s.app.Use(recover.New())
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.handleHealth)
	if s.ports.Metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.ports.Metrics))
	}

	upload := s.app.Group("/api/upload")
	upload.Post("/", s.handleUpload)

	sessions := upload.Group("/sessions")
	sessions.Get("/", s.handleListSessions)
	sessions.Get("/:id", s.handleGetSession)
	sessions.Delete("/:id", s.handleDeleteSession)
	sessions.Get("/:id/classify", s.handleClassify)
	sessions.Post("/:id/approve", s.handleApprove)
	sessions.Get("/:id/documents/:index", s.handleGetDocument)
	sessions.Put("/:id/documents/:index", s.handleEditDocument)
	sessions.Post("/:id/documents/:index/reclassify", s.handleReclassify)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()
	logger.Info("HTTP server listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.app.ShutdownWithContext(context.Background()); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return <-errCh
	}
}
