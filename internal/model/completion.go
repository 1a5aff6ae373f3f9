package model

import "time"

// Completion is one generated result as kept in the history store.
type Completion struct {
	ID             string
	Mode           string // "recommend" or "tailor"
	JobDescription string
	Resume         string
	Result         string    // model output, or the fallback sentence when Failed
	Failed         bool      // the completion call failed and Result is the fallback
	CreatedAt      time.Time // our clock
}

// CompletionStore records generated results so they can be listed later.
type CompletionStore interface {
	Save(c Completion) error
	List(limit int) ([]Completion, error)
	Get(id string) (Completion, error)
}
