package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopService struct{}

func (nopService) CheckURL(ctx context.Context, req core.URLCheckRequest) (*core.DetectionResult, error) {
	return &core.DetectionResult{URL: req.URL}, nil
}

func (nopService) CheckEmail(ctx context.Context, req core.EmailCheckRequest) (*core.DetectionResult, error) {
	return &core.DetectionResult{}, nil
}

func (nopService) Stats(ctx context.Context) (*core.Stats, error) {
	return &core.Stats{}, nil
}

func (nopService) History(ctx context.Context, kind core.CheckKind, limit int) ([]core.HistoryRecord, error) {
	return []core.HistoryRecord{}, nil
}

func testFactory() Factory {
	logger := zap.NewNop()
	f := display.NewFormatter(logger, "en-US", "UTC", 50)
	return func() *Session {
		return &Session{
			URL:     views.NewURLChecker(nopService{}, logger),
			Email:   views.NewEmailChecker(nopService{}, logger),
			History: views.NewHistoryView(nopService{}, f, 20, logger),
			Stats:   views.NewStatsView(nopService{}, f, 5, logger),
		}
	}
}

func TestStore_GetCreatesAndReuses(t *testing.T) {
	store := NewStore(testFactory(), time.Minute, 0, zap.NewNop())
	defer store.Stop()

	sess, created := store.Get("")
	require.True(t, created)
	_, err := uuid.Parse(sess.ID)
	assert.NoError(t, err)

	again, created := store.Get(sess.ID)
	assert.False(t, created)
	assert.Same(t, sess, again)

	other, created := store.Get("not-a-session")
	assert.True(t, created)
	assert.NotEqual(t, sess.ID, other.ID)
	assert.Equal(t, 2, store.Len())
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := NewStore(testFactory(), time.Minute, 0, zap.NewNop())
	defer store.Stop()

	a, _ := store.Get("")
	b, _ := store.Get("")

	_, err := a.URL.Submit(context.Background(), core.URLCheckRequest{URL: "http://a.example"})
	require.NoError(t, err)

	assert.Equal(t, views.StatusSucceeded, a.URL.State().Status)
	assert.Equal(t, views.StatusIdle, b.URL.State().Status)
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(testFactory(), time.Minute, 0, zap.NewNop())
	defer store.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess, _ := store.Get("")
	now = now.Add(30 * time.Second)
	_, created := store.Get(sess.ID)
	assert.False(t, created, "activity refreshes the session")

	now = now.Add(2 * time.Minute)
	store.Cleanup()
	assert.Zero(t, store.Len())

	fresh, created := store.Get(sess.ID)
	assert.True(t, created)
	assert.NotEqual(t, sess.ID, fresh.ID)
}
