// Package history runs completions on behalf of the front ends and keeps a
// record of each result.
package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/resumetailor/internal/ai"
	"github.com/amishk599/resumetailor/internal/model"
)

// Generator produces text for a job description and resume, substituting a
// fallback message on failure.
type Generator interface {
	Generate(ctx context.Context, jobDescription, resume string, mode ai.Mode) (string, bool)
}

// Recorder owns the generate → save pipeline shared by the wizard, the CLI
// and the HTTP API.
type Recorder struct {
	gen    Generator
	store  model.CompletionStore
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder. Pass store.NopStore to keep nothing.
func NewRecorder(gen Generator, store model.CompletionStore, logger *slog.Logger) *Recorder {
	return &Recorder{
		gen:    gen,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Generate runs one completion and records it. Store failures are logged and
// never hide the generated text from the caller.
func (r *Recorder) Generate(ctx context.Context, jobDescription, resume string, mode ai.Mode) model.Completion {
	text, failed := r.gen.Generate(ctx, jobDescription, resume, mode)

	c := model.Completion{
		ID:             uuid.NewString(),
		Mode:           mode.String(),
		JobDescription: jobDescription,
		Resume:         resume,
		Result:         text,
		Failed:         failed,
		CreatedAt:      r.now(),
	}

	if err := r.store.Save(c); err != nil {
		r.logger.Error("saving completion failed", "id", c.ID, "mode", c.Mode, "error", err)
	}

	r.logger.Info("completion generated",
		"id", c.ID,
		"mode", c.Mode,
		"failed", c.Failed,
		"chars", len(c.Result),
	)
	return c
}
