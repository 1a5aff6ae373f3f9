package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects which fixed system prompt is sent with a request.
type Mode string

const (
	// ModeRecommend asks the model to advise on which experiences to keep,
	// without rewriting any resume content.
	ModeRecommend Mode = "recommend"
	// ModeTailor asks the model to rewrite the resume against the job description.
	ModeTailor Mode = "tailor"
)

// ErrUnknownMode is returned for a mode other than recommend or tailor.
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode validates a user-supplied mode. Blank input yields ModeRecommend;
// anything else that is not a known mode is an error.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeRecommend):
		return ModeRecommend, nil
	case string(ModeTailor):
		return ModeTailor, nil
	default:
		return "", fmt.Errorf("%w: %q (want recommend or tailor)", ErrUnknownMode, s)
	}
}

func (m Mode) String() string {
	if m == "" {
		return string(ModeRecommend)
	}
	return string(m)
}
