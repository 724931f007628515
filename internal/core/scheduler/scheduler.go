// Package scheduler runs named jobs on cron schedules.
package scheduler

import (
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/xzzpig/rclone-vfs/internal/core/logger"
	"go.uber.org/zap"
)

// parser accepts five-field specs, an optional leading seconds field and
// descriptors such as "@every 5m" or "@hourly".
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Validate reports whether spec is a schedule the Scheduler accepts.
func Validate(spec string) error {
	_, err := parser.Parse(spec)
	return err
}

// Scheduler runs jobs by name. A job whose previous run is still going is
// skipped rather than run concurrently.
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	mu      sync.Mutex
	jobs    map[string]cron.EntryID
	running bool
}

func New() *Scheduler {
	log := logger.Named("vfs.scheduler")
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{log})),
			cron.WithLogger(cronLogger{log}),
		),
		log:  log,
		jobs: make(map[string]cron.EntryID),
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.log.Warn("Scheduler is already running")
		return
	}
	s.log.Info("Starting scheduler", zap.Int("jobs", len(s.jobs)))
	s.cron.Start()
	s.running = true
}

// Stop stops the scheduler and waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.log.Info("Stopping scheduler")
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
}

// Add schedules job under name, replacing any job already using that name.
func (s *Scheduler) Add(name, spec string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(name)

	id, err := s.cron.AddFunc(spec, func() {
		s.log.Info("Running scheduled job", zap.String("job", name))
		job()
	})
	if err != nil {
		return err
	}
	s.jobs[name] = id
	s.log.Info("Scheduled job added", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

func (s *Scheduler) removeLocked(name string) {
	if id, ok := s.jobs[name]; ok {
		s.cron.Remove(id)
		delete(s.jobs, name)
		s.log.Info("Removed scheduled job", zap.String("job", name))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, zap.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
