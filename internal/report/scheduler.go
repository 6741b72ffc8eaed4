package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	HourlySchedule = "@every 1h"
	DailySchedule  = "0 22 * * *"

	firstHourlyDelay = 10 * time.Second
	jobTimeout       = 2 * time.Minute
)

// Notifier delivers the daily summary to the administrator.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Scheduler runs the hourly report every hour (the first one shortly after
// start) and the daily report at 22:00 in the given location.
type Scheduler struct {
	cron      *cron.Cron
	generator *Generator
	notifier  Notifier
	adminID   int64
	logger    logrus.FieldLogger

	mu         sync.Mutex
	firstTimer *time.Timer
}

func NewScheduler(generator *Generator, notifier Notifier, adminID int64, loc *time.Location, logger *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cron.PrintfLogger(logger)),
			cron.WithChain(cron.Recover(cron.PrintfLogger(logger))),
		),
		generator: generator,
		notifier:  notifier,
		adminID:   adminID,
		logger:    logger,
	}

	if _, err := s.cron.AddFunc(HourlySchedule, func() { s.RunHourly(context.Background()) }); err != nil {
		return nil, fmt.Errorf("failed to schedule hourly report: %w", err)
	}
	if _, err := s.cron.AddFunc(DailySchedule, func() { s.RunDaily(context.Background()) }); err != nil {
		return nil, fmt.Errorf("failed to schedule daily report: %w", err)
	}
	return s, nil
}

// AddJob registers an extra maintenance job. Errors returned by job are logged.
func (s *Scheduler) AddJob(spec, name string, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := job(ctx); err != nil {
			s.logger.WithError(err).WithField("job", name).Error("Scheduled job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	s.firstTimer = time.AfterFunc(firstHourlyDelay, func() { s.RunHourly(context.Background()) })
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Report scheduler started")
}

// Stop prevents new runs and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	if s.firstTimer != nil {
		s.firstTimer.Stop()
	}
	s.mu.Unlock()
	return s.cron.Stop()
}

// RunHourly creates the hourly report; failures are only logged.
func (s *Scheduler) RunHourly(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	if _, err := s.generator.Hourly(ctx); err != nil {
		s.logger.WithError(err).Error("Failed to create hourly report")
	}
}

// RunDaily creates the daily report and sends its summary to the admin, if one is configured.
func (s *Scheduler) RunDaily(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	summary, err := s.generator.Daily(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create daily report")
		return
	}

	if s.adminID == 0 || summary == "" {
		return
	}
	if err := s.notifier.SendText(ctx, s.adminID, "📊 DAILY REPORT\n\n"+summary); err != nil {
		s.logger.WithError(err).WithField("chat_id", s.adminID).Error("Failed to send daily report to admin")
	}
}
