package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job runs one scheduled pass. now is the tick time in UTC.
type Job func(ctx context.Context, now time.Time) error

// Scheduler runs a single job on a cron spec ("@daily", "0 1 * * *").
// An empty spec builds a disabled scheduler whose Start and Stop do nothing.
type Scheduler struct {
	name    string
	spec    string
	job     Job
	log     zerolog.Logger
	timeout time.Duration
	cron    *cron.Cron
	now     func() time.Time
}

func New(name, spec string, job Job, log zerolog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("scheduler: nil job")
	}
	s := &Scheduler{
		name:    name,
		spec:    strings.TrimSpace(spec),
		job:     job,
		log:     log.With().Str("job", name).Logger(),
		timeout: 30 * time.Minute,
		now:     time.Now,
	}
	if s.spec == "" {
		return s, nil
	}

	cl := cronLogger{log: s.log}
	s.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(s.spec, func() { _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("scheduler %s: bad spec %q: %w", name, s.spec, err)
	}
	return s, nil
}

func (s *Scheduler) Enabled() bool { return s.cron != nil }

func (s *Scheduler) Start() {
	if s.cron == nil {
		s.log.Info().Msg("scheduler disabled")
		return
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler started")
}

// Stop prevents new runs and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce executes the job immediately with the current time.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := s.now().UTC()
	err := s.job(ctx, start)
	ev := s.log.Info()
	if err != nil {
		ev = s.log.Error().Err(err)
	}
	ev.Dur("took", time.Since(start)).Msg("scheduled job finished")
	return err
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct{ log zerolog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
