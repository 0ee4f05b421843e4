package views

import (
	"context"
	"sync"

	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"go.uber.org/zap"
)

// DefaultHistoryLimit is how many records a tab fetches
const DefaultHistoryLimit = 20

// HistoryRow is a HistoryRecord shaped for display; the record itself is untouched
type HistoryRow struct {
	ID         core.RecordID
	Primary    string
	Secondary  string
	Date       string
	IsPhishing bool
	Verdict    string
	Confidence string
}

// HistoryState is a snapshot of the history view
type HistoryState struct {
	Status    Status
	Tab       core.CheckKind
	Records   []core.HistoryRecord
	Rows      []HistoryRow
	EmptyText string
	Error     string
	Seq       uint64
}

// Empty reports whether a loaded tab has no records
func (s HistoryState) Empty() bool {
	return s.Status == StatusSucceeded && len(s.Rows) == 0
}

// HistoryView coordinates the URL/email history tabs. Every tab switch
// re-enters Loading and fetches; responses for a tab that is no longer the
// latest selection are dropped.
type HistoryView struct {
	svc       HistoryService
	formatter *display.Formatter
	limit     int
	logger    *zap.Logger

	mu    sync.Mutex
	seq   sequence
	state HistoryState
}

// NewHistoryView creates a history coordinator
func NewHistoryView(svc HistoryService, formatter *display.Formatter, limit int, logger *zap.Logger) *HistoryView {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryView{
		svc:       svc,
		formatter: formatter,
		limit:     limit,
		logger:    logger,
		state:     HistoryState{Tab: core.KindURL},
	}
}

// State returns the current snapshot
func (h *HistoryView) State() HistoryState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// SelectTab switches to kind and fetches its records
func (h *HistoryView) SelectTab(ctx context.Context, kind core.CheckKind) (HistoryState, error) {
	h.mu.Lock()
	seq := h.seq.next()
	h.state = HistoryState{Status: StatusLoading, Tab: kind, Seq: seq}
	h.mu.Unlock()

	records, err := h.svc.History(ctx, kind, h.limit)

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.seq.current(seq) {
		h.logger.Debug("Discarding stale history response",
			zap.String("kind", string(kind)),
			zap.Uint64("seq", seq))
		return h.state, ErrSuperseded
	}

	if err != nil {
		h.state.Status = StatusFailed
		h.state.Error = MsgHistoryFailed
		return h.state, err
	}

	h.state.Status = StatusSucceeded
	h.state.Records = records
	h.state.Rows = HistoryRows(kind, records, h.formatter)
	h.state.EmptyText = emptyHistoryText(kind)
	return h.state, nil
}

// Reset discards state; an in-flight fetch is dropped on arrival
func (h *HistoryView) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq.next()
	h.state = HistoryState{Tab: core.KindURL}
}

// HistoryRows formats records for display
func HistoryRows(kind core.CheckKind, records []core.HistoryRecord, f *display.Formatter) []HistoryRow {
	rows := make([]HistoryRow, 0, len(records))
	for _, rec := range records {
		row := HistoryRow{
			ID:         rec.ID,
			Date:       f.Timestamp(rec.CheckedAt),
			IsPhishing: rec.IsPhishing,
			Verdict:    verdict(rec.IsPhishing),
			Confidence: "(" + f.Confidence(rec.Confidence) + ")",
		}
		if kind == core.KindEmail {
			row.Primary = orDefault(f.Truncate(rec.Subject), "(No subject)")
			row.Secondary = orDefault(f.Truncate(rec.Sender), "(Unknown sender)")
		} else {
			row.Primary = f.Truncate(rec.URL)
		}
		rows = append(rows, row)
	}
	return rows
}

func verdict(isPhishing bool) string {
	if isPhishing {
		return "Phishing"
	}
	return "Legitimate"
}

func emptyHistoryText(kind core.CheckKind) string {
	if kind == core.KindEmail {
		return "No email check history available"
	}
	return "No URL check history available"
}
