package library

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper runs LibraryManager.SweepOverdue on a cron schedule. Runs never
// overlap; a tick that fires while a sweep is still going is skipped.
type Sweeper struct {
	mgr      *LibraryManager
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewSweeper parses schedule (standard five-field expression or a descriptor such
// as "@daily") and registers the sweep job.
func NewSweeper(mgr *LibraryManager, schedule string, log zerolog.Logger) (*Sweeper, error) {
	s := &Sweeper{
		mgr:      mgr,
		schedule: schedule,
		timeout:  time.Minute,
		log:      log.With().Str("component", "sweeper").Logger(),
	}
	s.cron = cron.New(cron.WithChain(cron.Recover(cronLogger{s.log}), cron.SkipIfStillRunning(cronLogger{s.log})))
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.RunOnce(ctx)
}

// RunOnce performs one sweep immediately.
func (s *Sweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	log := s.log.With().Str("run_id", uuid.NewString()).Logger()
	start := time.Now()
	res, err := s.mgr.SweepOverdue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sweep failed")
		return res, err
	}
	log.Info().Int("overdue", res.Overdue).Int("expired", res.Expired).Int("skipped", res.Skipped).
		Dur("took", time.Since(start)).Msg("sweep finished")
	return res, nil
}

func (s *Sweeper) Start() {
	s.log.Info().Str("schedule", s.schedule).Msg("sweeper started")
	s.cron.Start()
}

// Stop stops scheduling and waits for a running sweep, or for ctx.
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct{ log zerolog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
