package views

import (
	"context"
	"errors"
	"sync"

	"github.com/mikey/phish-dashboard/internal/core"
	"go.uber.org/zap"
)

// CheckState is a snapshot of a checker view.
// Result is the last successful result and survives later failures.
type CheckState[In any] struct {
	Status Status
	Input  In
	Result *core.DetectionResult
	Error  string
	Seq    uint64
}

// Loading reports whether a request is outstanding
func (s CheckState[In]) Loading() bool {
	return s.Status == StatusLoading
}

// Checker coordinates one check form: synchronous validation, at most one
// outstanding request, and the result/error state that follows.
type Checker[In any] struct {
	kind     core.CheckKind
	validate func(In) error
	call     func(context.Context, In) (*core.DetectionResult, error)
	fallback string
	initial  In
	logger   *zap.Logger

	mu    sync.Mutex
	seq   sequence
	state CheckState[In]
}

// URLChecker is the coordinator behind the URL check form
type URLChecker = Checker[core.URLCheckRequest]

// EmailChecker is the coordinator behind the email check form
type EmailChecker = Checker[core.EmailCheckRequest]

// NewURLChecker creates a URL check coordinator
func NewURLChecker(svc CheckService, logger *zap.Logger) *URLChecker {
	return &URLChecker{
		kind:     core.KindURL,
		validate: core.ValidateURL,
		call:     svc.CheckURL,
		fallback: MsgURLCheckFailed,
		initial:  core.URLCheckRequest{FetchContent: true},
		logger:   logger,
		state:    CheckState[core.URLCheckRequest]{Input: core.URLCheckRequest{FetchContent: true}},
	}
}

// NewEmailChecker creates an email check coordinator
func NewEmailChecker(svc CheckService, logger *zap.Logger) *EmailChecker {
	return &EmailChecker{
		kind:     core.KindEmail,
		validate: core.ValidateEmail,
		call:     svc.CheckEmail,
		fallback: MsgEmailCheckFailed,
		logger:   logger,
	}
}

// Kind returns which check this coordinator submits
func (c *Checker[In]) Kind() core.CheckKind {
	return c.kind
}

// State returns the current snapshot
func (c *Checker[In]) State() CheckState[In] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit validates in and, if it passes, issues exactly one detection request
// and waits for it. A submission while a request is outstanding is rejected
// with core.ErrBusy and leaves the state untouched. Validation failures never
// reach the network. Failures keep the previous result.
func (c *Checker[In]) Submit(ctx context.Context, in In) (CheckState[In], error) {
	c.mu.Lock()
	if c.state.Status == StatusLoading {
		state := c.state
		c.mu.Unlock()
		return state, core.ErrBusy
	}

	c.state.Status = StatusValidating
	c.state.Input = in
	if err := c.validate(in); err != nil {
		c.state.Status = StatusFailed
		c.state.Error = core.UserMessage(err, err.Error())
		state := c.state
		c.mu.Unlock()
		c.logger.Debug("Submission rejected by validation",
			zap.String("kind", string(c.kind)),
			zap.Error(err))
		return state, err
	}

	seq := c.seq.next()
	c.state.Status = StatusLoading
	c.state.Error = ""
	c.state.Seq = seq
	c.mu.Unlock()

	result, err := c.call(ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.seq.current(seq) {
		c.logger.Debug("Discarding stale check response",
			zap.String("kind", string(c.kind)),
			zap.Uint64("seq", seq))
		return c.state, ErrSuperseded
	}

	if err != nil {
		c.state.Status = StatusFailed
		c.state.Error = core.UserMessage(err, c.fallback)
		return c.state, err
	}
	if result == nil {
		c.state.Status = StatusFailed
		c.state.Error = c.fallback
		return c.state, errors.New("detection service returned no result")
	}

	c.state.Status = StatusSucceeded
	c.state.Result = result
	c.state.Error = ""
	return c.state, nil
}

// Reset discards all state, as when the user navigates away.
// A response still in flight is dropped when it arrives.
func (c *Checker[In]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq.next()
	c.state = CheckState[In]{Input: c.initial}
}
