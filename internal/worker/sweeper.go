package worker

import (
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"
)

type IdleSweeper interface {
	SweepIdle(now time.Time, idleTTL time.Duration) int
}

// Purger drops expired entries from an in-memory store.
type Purger interface {
	Purge() int
}

type SweepRecorder interface {
	SessionsSwept(n int)
}

type SweeperConfig struct {
	Cron     string
	IdleTTL  time.Duration
	Previews Purger
	Recorder SweepRecorder
}

// Sweeper closes idle sessions on a cron schedule.
type Sweeper struct {
	sessions IdleSweeper
	cfg      SweeperConfig
	logger   *zap.SugaredLogger
	now      func() time.Time
	stopChan chan struct{}
	done     chan struct{}
}

func NewSweeper(sessions IdleSweeper, cfg SweeperConfig, logger *zap.SugaredLogger) (*Sweeper, error) {
	if !gronx.IsValid(cfg.Cron) {
		return nil, fmt.Errorf("invalid sweep cron expression: %s", cfg.Cron)
	}
	return &Sweeper{
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

func (s *Sweeper) Start() {
	go s.run()
	s.logger.Infow("Session sweeper started", "cron", s.cfg.Cron, "idle_ttl", s.cfg.IdleTTL)
}

// Stop ends the schedule loop and waits for it to exit.
func (s *Sweeper) Stop() {
	close(s.stopChan)
	<-s.done
}

// RunOnce sweeps immediately and returns the number of sessions closed.
func (s *Sweeper) RunOnce() int {
	closed := s.sessions.SweepIdle(s.now(), s.cfg.IdleTTL)
	if s.cfg.Recorder != nil && closed > 0 {
		s.cfg.Recorder.SessionsSwept(closed)
	}
	if s.cfg.Previews != nil {
		if n := s.cfg.Previews.Purge(); n > 0 {
			s.logger.Infow("Expired previews purged", "count", n)
		}
	}
	return closed
}

func (s *Sweeper) next(after time.Time) (time.Time, error) {
	return gronx.NextTickAfter(s.cfg.Cron, after, false)
}

func (s *Sweeper) run() {
	defer close(s.done)
	for {
		next, err := s.next(s.now())
		if err != nil {
			s.logger.Errorw("Failed to compute next sweep", "cron", s.cfg.Cron, "error", err)
			next = s.now().Add(time.Minute)
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.stopChan:
			timer.Stop()
			s.logger.Infow("Session sweeper shutting down")
			return
		case <-timer.C:
			s.RunOnce()
		}
	}
}
