package views

import (
	"context"
	"errors"
	"sync"

	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultRecentLimit is how many recent URL checks the overview lists
const DefaultRecentLimit = 5

// Tile is one numeric summary box
type Tile struct {
	Label string
	Value string
	Tone  string
}

// PieChart is a two-slice phishing/legitimate series
type PieChart struct {
	Labels          []string
	Values          []int
	Colors          []string
	BorderColors    []string
	PhishingDegrees float64
}

// CategoryPanel is the overview card for one check kind
type CategoryPanel struct {
	Kind       core.CheckKind
	Title      string
	Stats      core.CategoryStats
	Tiles      []Tile
	Chart      *PieChart
	NoDataText string
}

// RecentRow is a recent URL check with its status badge
type RecentRow struct {
	ID         core.RecordID
	URL        string
	Date       string
	IsPhishing bool
	Status     string
}

// Dashboard is everything the overview renders
type Dashboard struct {
	URLs            CategoryPanel
	Emails          CategoryPanel
	Recent          []RecentRow
	RecentEmptyText string
}

// StatsState is a snapshot of the overview
type StatsState struct {
	Status    Status
	Dashboard *Dashboard
	Error     string
	Seq       uint64
}

// StatsView loads the statistics and recent URL checks together.
// Either fetch failing fails the whole load; nothing is rendered partially.
type StatsView struct {
	svc         StatsService
	formatter   *display.Formatter
	recentLimit int
	logger      *zap.Logger

	mu    sync.Mutex
	seq   sequence
	state StatsState
}

// NewStatsView creates an overview coordinator
func NewStatsView(svc StatsService, formatter *display.Formatter, recentLimit int, logger *zap.Logger) *StatsView {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &StatsView{
		svc:         svc,
		formatter:   formatter,
		recentLimit: recentLimit,
		logger:      logger,
	}
}

// State returns the current snapshot
func (v *StatsView) State() StatsState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Load fetches stats and recent URL history concurrently and waits for both
func (v *StatsView) Load(ctx context.Context) (StatsState, error) {
	v.mu.Lock()
	seq := v.seq.next()
	v.state = StatsState{Status: StatusLoading, Seq: seq}
	v.mu.Unlock()

	var (
		stats  *core.Stats
		recent []core.HistoryRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = v.svc.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = v.svc.History(gctx, core.KindURL, v.recentLimit)
		return err
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.seq.current(seq) {
		v.logger.Debug("Discarding stale dashboard response", zap.Uint64("seq", seq))
		return v.state, ErrSuperseded
	}

	if err == nil && stats == nil {
		err = errors.New("detection service returned no stats")
	}
	if err != nil {
		v.logger.Warn("Dashboard load failed", zap.Error(err))
		v.state.Status = StatusFailed
		v.state.Error = MsgDashboardFailed
		return v.state, err
	}

	v.state.Status = StatusSucceeded
	v.state.Dashboard = BuildDashboard(stats, recent, v.formatter)
	return v.state, nil
}

// Reset discards state; an in-flight load is dropped on arrival
func (v *StatsView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq.next()
	v.state = StatsState{}
}

// BuildDashboard derives the tiles, charts and recent list
func BuildDashboard(stats *core.Stats, recent []core.HistoryRecord, f *display.Formatter) *Dashboard {
	d := &Dashboard{
		URLs:            NewCategoryPanel(core.KindURL, stats.URLs, f),
		Emails:          NewCategoryPanel(core.KindEmail, stats.Emails, f),
		RecentEmptyText: "No URL history available yet",
	}
	for _, rec := range recent {
		d.Recent = append(d.Recent, RecentRow{
			ID:         rec.ID,
			URL:        rec.URL,
			Date:       f.Timestamp(rec.CheckedAt),
			IsPhishing: rec.IsPhishing,
			Status:     verdict(rec.IsPhishing),
		})
	}
	return d
}

// NewCategoryPanel builds the tiles and chart for one kind.
// The chart is omitted when there is nothing to show.
func NewCategoryPanel(kind core.CheckKind, in core.CategoryStats, f *display.Formatter) CategoryPanel {
	stats := in.Normalize()

	title, totalLabel, noData := "URL Detection Statistics", "Total URLs", "No URL data available yet"
	if kind == core.KindEmail {
		title, totalLabel, noData = "Email Detection Statistics", "Total Emails", "No email data available yet"
	}

	panel := CategoryPanel{
		Kind:  kind,
		Title: title,
		Stats: stats,
		Tiles: []Tile{
			{Label: totalLabel, Value: f.Count(stats.Total)},
			{Label: "Phishing", Value: f.Count(stats.PhishingCount), Tone: "phishing"},
			{Label: "Legitimate", Value: f.Count(stats.LegitimateCount), Tone: "legitimate"},
			{Label: "Phishing Rate", Value: f.Percentage(stats.PhishingPercentage)},
		},
		NoDataText: noData,
	}

	if stats.HasData() {
		panel.Chart = &PieChart{
			Labels:          []string{"Phishing", "Legitimate"},
			Values:          []int{stats.PhishingCount, stats.LegitimateCount},
			Colors:          []string{"#f44336", "#4caf50"},
			BorderColors:    []string{"#c62828", "#2e7d32"},
			PhishingDegrees: 360 * float64(stats.PhishingCount) / float64(stats.Total),
		}
	}
	return panel
}
