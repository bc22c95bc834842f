package compare

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrRetrievalUnavailable marks a failed Wikipedia lookup.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrGenerationUnavailable marks a failed model call.
	ErrGenerationUnavailable = errors.New("generation unavailable")
)

// Panel titles as shown to the user.
const (
	TitleWikipedia = "Wikipedia response"
	TitleDirect    = "LLM response"
	TitleAugmented = "Wiki + LLM response"
)

// NoResultsNotice is shown in the Wikipedia panel when the search found nothing.
const NoResultsNotice = "No good Wikipedia Search Result was found"

// Panel is one labeled output block.
type Panel struct {
	Title  string
	Text   string
	Err    error
	Notice string
}

// Failed reports whether the panel carries an error instead of text.
func (p Panel) Failed() bool {
	return p.Err != nil
}

// ErrorMessage returns the error text, or "" for a successful panel.
func (p Panel) ErrorMessage() string {
	if p.Err == nil {
		return ""
	}
	return p.Err.Error()
}

// Timings records how long each stage took.
type Timings struct {
	Retrieval time.Duration
	Direct    time.Duration
	Augmented time.Duration
	Total     time.Duration
}

// Comparison is the result of one run. It is built once by Pipeline.Run and
// not modified afterwards.
type Comparison struct {
	ID        uuid.UUID
	Query     string
	Submitted bool

	Wikipedia Panel
	Direct    Panel
	Augmented Panel

	Prompt  string
	Timings Timings
}

// Panels returns the three panels in display order, or nil when nothing was submitted.
func (c *Comparison) Panels() []Panel {
	if !c.Submitted {
		return nil
	}
	return []Panel{c.Wikipedia, c.Direct, c.Augmented}
}
