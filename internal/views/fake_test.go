package views

import (
	"context"
	"sync"

	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"go.uber.org/zap"
)

// fakeService records calls and answers from per-method hooks
type fakeService struct {
	mu    sync.Mutex
	calls map[string]int

	checkURL   func(ctx context.Context, req core.URLCheckRequest) (*core.DetectionResult, error)
	checkEmail func(ctx context.Context, req core.EmailCheckRequest) (*core.DetectionResult, error)
	stats      func(ctx context.Context) (*core.Stats, error)
	history    func(ctx context.Context, kind core.CheckKind, limit int) ([]core.HistoryRecord, error)
}

func newFakeService() *fakeService {
	return &fakeService{calls: make(map[string]int)}
}

func (f *fakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeService) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeService) CheckURL(ctx context.Context, req core.URLCheckRequest) (*core.DetectionResult, error) {
	f.record("CheckURL")
	return f.checkURL(ctx, req)
}

func (f *fakeService) CheckEmail(ctx context.Context, req core.EmailCheckRequest) (*core.DetectionResult, error) {
	f.record("CheckEmail")
	return f.checkEmail(ctx, req)
}

func (f *fakeService) Stats(ctx context.Context) (*core.Stats, error) {
	f.record("Stats")
	return f.stats(ctx)
}

func (f *fakeService) History(ctx context.Context, kind core.CheckKind, limit int) ([]core.HistoryRecord, error) {
	f.record("History:" + string(kind))
	return f.history(ctx, kind, limit)
}

func testFormatter() *display.Formatter {
	return display.NewFormatter(zap.NewNop(), "en-US", "UTC", 50)
}
