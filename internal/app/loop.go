package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"preview-editor/internal/logger"
)

// Dispatch runs fn on the UI goroutine.
type Dispatch func(fn func())

// FrameLoop calls tick on the UI goroutine once per interval. A tick that is
// still queued when the next interval elapses swallows that interval, so a
// slow frame never piles up work.
type FrameLoop struct {
	clock    clockwork.Clock
	interval time.Duration
	dispatch Dispatch
	tick     func()
	logger   logger.Logger

	queued  atomic.Bool
	frames  atomic.Uint64
	skipped atomic.Uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewFrameLoop(clock clockwork.Clock, interval time.Duration, dispatch Dispatch, tick func(), log logger.Logger) *FrameLoop {
	return &FrameLoop{
		clock:    clock,
		interval: interval,
		dispatch: dispatch,
		tick:     tick,
		logger:   log,
	}
}

// Start runs the loop in the background until ctx is done or Shutdown is called.
func (l *FrameLoop) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.run(ctx)
	}()
}

func (l *FrameLoop) run(ctx context.Context) {
	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Debug("FrameLoop", "frame loop started", map[string]interface{}{
		"interval": l.interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("FrameLoop", "frame loop stopped", map[string]interface{}{
				"frames":  l.frames.Load(),
				"skipped": l.skipped.Load(),
			})
			return
		case <-ticker.Chan():
			if !l.queued.CompareAndSwap(false, true) {
				l.skipped.Add(1)
				continue
			}
			l.dispatch(func() {
				defer l.queued.Store(false)
				if ctx.Err() != nil {
					return
				}
				l.tick()
				l.frames.Add(1)
			})
		}
	}
}

// Frames is the number of ticks that ran.
func (l *FrameLoop) Frames() uint64 { return l.frames.Load() }

// Skipped is the number of intervals swallowed by a queued tick.
func (l *FrameLoop) Skipped() uint64 { return l.skipped.Load() }

func (l *FrameLoop) Shutdown() {
	if l.cancel != nil {
		l.cancel()
	}
	l.wg.Wait()
}
