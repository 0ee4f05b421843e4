package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// sweeper calls purge on a fixed interval until stopped. A zero interval
// never starts the goroutine.
type sweeper struct {
	stopCh   chan struct{}
	stopOnce sync.Once
}

func startSweeper(every time.Duration, logger *zap.Logger, purge func(context.Context) error) *sweeper {
	s := &sweeper{stopCh: make(chan struct{})}
	if every <= 0 {
		return s
	}

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				if err := purge(context.Background()); err != nil {
					logger.Error("History cache sweep failed", zap.Error(err))
				}
			}
		}
	}()
	return s
}

func (s *sweeper) stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
