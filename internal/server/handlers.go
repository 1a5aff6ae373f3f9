package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/amishk599/resumetailor/internal/ai"
	"github.com/amishk599/resumetailor/internal/model"
	"github.com/amishk599/resumetailor/internal/render"
	"github.com/amishk599/resumetailor/internal/store"
)

const defaultListLimit = 20

type completionRequest struct {
	JobDescription string `json:"job_description"`
	Resume         string `json:"resume"`
	Mode           string `json:"mode"`
}

type completionResponse struct {
	ID     string `json:"id"`
	Mode   string `json:"mode"`
	Result string `json:"result"`
}

type completionRecord struct {
	ID             string    `json:"id"`
	Mode           string    `json:"mode"`
	JobDescription string    `json:"job_description"`
	Resume         string    `json:"resume"`
	Result         string    `json:"result"`
	Failed         bool      `json:"failed"`
	CreatedAt      time.Time `json:"created_at"`
}

type renderRequest struct {
	Markdown string `json:"markdown"`
}

// handleCreateCompletion handles POST /api/completions. A failed model call
// still answers 200 with the fallback sentence as the result.
func (s *Server) handleCreateCompletion(c *fiber.Ctx) error {
	var req completionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	mode, err := ai.ParseMode(req.Mode)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	done := s.gen.Generate(c.UserContext(), req.JobDescription, req.Resume, mode)

	return c.JSON(completionResponse{
		ID:     done.ID,
		Mode:   done.Mode,
		Result: done.Result,
	})
}

// handleListCompletions handles GET /api/completions?limit=N.
func (s *Server) handleListCompletions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)

	completions, err := s.store.List(limit)
	if err != nil {
		s.logger.Error("listing completions failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list completions")
	}

	records := make([]completionRecord, 0, len(completions))
	for _, cm := range completions {
		records = append(records, toRecord(cm))
	}
	return c.JSON(records)
}

// handleGetCompletion handles GET /api/completions/:id.
func (s *Server) handleGetCompletion(c *fiber.Ctx) error {
	cm, err := s.store.Get(c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "completion not found",
		})
	}
	if err != nil {
		s.logger.Error("loading completion failed", "id", c.Params("id"), "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load completion")
	}
	return c.JSON(toRecord(cm))
}

// handleRender handles POST /api/render, returning the markdown as HTML.
func (s *Server) handleRender(c *fiber.Ctx) error {
	var req renderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	out, err := render.HTML(req.Markdown)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(out)
}

func toRecord(cm model.Completion) completionRecord {
	return completionRecord{
		ID:             cm.ID,
		Mode:           cm.Mode,
		JobDescription: cm.JobDescription,
		Resume:         cm.Resume,
		Result:         cm.Result,
		Failed:         cm.Failed,
		CreatedAt:      cm.CreatedAt,
	}
}
