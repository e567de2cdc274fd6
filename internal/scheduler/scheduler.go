package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliazhigalev/zhigalev-delivery-club/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Pipeline is the unit of work the scheduler drives: one pricing pass over
// all unprocessed packages, returning the count priced.
type Pipeline interface {
	PriceUnprocessed(ctx context.Context) (int, error)
}

var ErrInvalidConfig = errors.New("scheduler: missing dependencies")

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Pipeline Pipeline
	Config   Config `optional:"true"`
}

type Scheduler struct {
	log      *zap.Logger
	cfg      Config
	clock    clock.Clock
	pipeline Pipeline

	// runMu serializes pipeline executions. Scheduled ticks TryLock and skip
	// when a previous run is still in flight; manual triggers wait their turn.
	runMu sync.Mutex

	// lifeMu guards the running/cancel/done triple so Start and Stop can be
	// called from any goroutine.
	lifeMu  sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.Pipeline == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:      p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:      p.Config.withDefaults(),
		clock:    p.Clock,
		pipeline: p.Pipeline,
	}, nil
}

// Start launches the recurring timer. Calling it again while running is a no-op.
func (s *Scheduler) Start() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.running {
		s.log.Info("scheduler already running, skipping duplicate start")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.running = true

	go func() {
		defer close(done)
		s.RunForever(ctx)
	}()

	s.log.Info("scheduler started", zap.Duration("interval", s.cfg.RunInterval))
}

// Stop halts the timer between ticks and waits for an in-flight run to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.lifeMu.Lock()
	if !s.running {
		s.lifeMu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.lifeMu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunForever drives the pipeline on the configured interval until ctx is done.
// A tick that would overlap a still-running pass is skipped, not queued.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !s.runMu.TryLock() {
			ticksSkippedTotal.Inc()
			s.log.Warn("previous pricing run still in flight, skipping tick")
			continue
		}
		// Errors are logged inside runOnce; one failed run must not stop the loop.
		_, _ = s.runOnce(ctx)
		s.runMu.Unlock()
	}
}

// TriggerNow runs the pipeline immediately, independent of the timer, and
// returns the number of packages priced.
func (s *Scheduler) TriggerNow(ctx context.Context) (int, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.runOnce(ctx)
}

func (s *Scheduler) runOnce(parent context.Context) (int, error) {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.RunTimeout)
	defer cancel()

	processed, err := s.pipeline.PriceUnprocessed(ctx)

	elapsed := s.clock.Now().Sub(start)
	runDuration.Observe(elapsed.Seconds())
	runsTotal.Inc()

	if err != nil {
		runErrorsTotal.Inc()
		s.log.Warn("pricing run failed",
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return 0, err
	}

	packagesPricedTotal.Add(float64(processed))
	s.log.Info("pricing run completed",
		zap.Int("processed", processed),
		zap.Duration("elapsed", elapsed),
	)
	return processed, nil
}
