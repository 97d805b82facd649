package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/campuslife/campus-climate/internal/climate"
)

// Scheduler drives the engine: one analysis tick at the top of every hour and
// one daily reset shortly after the campus day boundary. The two jobs share a
// mutex so a reset can never interleave with an in-flight tick; the reset is
// scheduled one minute after the boundary tick so the old day's analysis
// always lands first.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	engine      *climate.Engine
	loc         *time.Location
	tickTimeout time.Duration

	mu sync.Mutex // serializes the tick and reset jobs
}

// New creates a Scheduler running in the given location; the campus day
// boundary is defined in local campus time, so the location matters.
func New(engine *climate.Engine, loc *time.Location, tickTimeout time.Duration) *Scheduler {
	return &Scheduler{
		scheduler:   gocron.NewScheduler(loc),
		engine:      engine,
		loc:         loc,
		tickTimeout: tickTimeout,
	}
}

// Start registers both jobs and starts the underlying scheduler. Errors from
// job runs are logged here and never propagated: a failed tick is recomputed
// from the last persisted reading on the next hour.
func (s *Scheduler) Start() error {
	// Hourly analysis at minute 0.
	if _, err := s.scheduler.Cron("0 * * * *").Do(s.runTick); err != nil {
		return err
	}

	// Daily reset at 05:01, one minute after the campus-day boundary tick.
	if _, err := s.scheduler.Cron("1 5 * * *").Do(s.runReset); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.tickTimeout)
	defer cancel()

	if _, err := s.engine.RunTick(ctx, time.Now().In(s.loc)); err != nil {
		log.Printf("ERROR: scheduler: analysis tick failed: %v", err)
	}
}

func (s *Scheduler) runReset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.ResetDay(time.Now().In(s.loc)); err != nil {
		log.Printf("ERROR: scheduler: daily reset failed: %v", err)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
