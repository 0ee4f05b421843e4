// Package views holds the per-view coordinators of the dashboard: the URL and
// email checkers, the history tabs and the statistics overview. Each
// coordinator owns its request lifecycle and exposes immutable snapshots of
// its state for rendering.
package views

import (
	"context"
	"errors"

	"github.com/mikey/phish-dashboard/internal/core"
)

// Status is the lifecycle position of a view
type Status int

const (
	StatusIdle Status = iota
	StatusValidating
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusValidating:
		return "validating"
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrSuperseded is returned to a caller whose response arrived after a newer
// request (or a reset) on the same view; the response was discarded.
var ErrSuperseded = errors.New("response superseded by a newer request")

// Fallback messages shown when the service gives no error text
const (
	MsgURLCheckFailed   = "Failed to check URL. Please try again."
	MsgEmailCheckFailed = "Failed to check email. Please try again."
	MsgHistoryFailed    = "Failed to fetch history. Please try again later."
	MsgDashboardFailed  = "Failed to fetch data. Please try again later."
)

// CheckService is the part of the dashboard service used by the checkers
type CheckService interface {
	CheckURL(ctx context.Context, req core.URLCheckRequest) (*core.DetectionResult, error)
	CheckEmail(ctx context.Context, req core.EmailCheckRequest) (*core.DetectionResult, error)
}

// HistoryService is the part of the dashboard service used by the history tabs
type HistoryService interface {
	History(ctx context.Context, kind core.CheckKind, limit int) ([]core.HistoryRecord, error)
}

// StatsService is the part of the dashboard service used by the overview
type StatsService interface {
	HistoryService
	Stats(ctx context.Context) (*core.Stats, error)
}

// sequence hands out request numbers; only the latest one may update a view
type sequence struct {
	latest uint64
}

func (s *sequence) next() uint64 {
	s.latest++
	return s.latest
}

func (s *sequence) current(n uint64) bool {
	return n == s.latest
}
