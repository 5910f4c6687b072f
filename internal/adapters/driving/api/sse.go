package api

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// handleClassify streams classification events as server-sent events.
// Each event is named after its kind and carries the event as JSON.
func (s *Server) handleClassify(c *fiber.Ctx) error {
	id := c.Params("id")
	events, err := s.ports.Streamer.Stream(c.UserContext(), id)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for ev := range events {
			if err := writeEvent(w, ev); err != nil {
				// The classification keeps running; the remaining
				// events are dropped with the channel.
				logger.Debug("Client left stream for session %s: %v", id, err)
				return
			}
		}
	})
	return nil
}

func writeEvent(w *bufio.Writer, ev domain.ClassificationEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data); err != nil {
		return err
	}
	return w.Flush()
}
