// internal/services/scheduler.go
package services

import (
	"context"
	"time"

	"greenwatch/internal/models"

	"github.com/sirupsen/logrus"
)

// Scheduler dispatches the daily summary at a fixed local hour.
type Scheduler struct {
	summaries  *SummaryService
	dispatcher *Dispatcher
	recipients []string
	hour       int
	log        *logrus.Logger

	Now func() time.Time
}

func NewScheduler(summaries *SummaryService, dispatcher *Dispatcher, recipients []string, hour int, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		summaries:  summaries,
		dispatcher: dispatcher,
		recipients: recipients,
		hour:       hour,
		log:        log,
		Now:        time.Now,
	}
}

// Run blocks until the context is canceled, firing once per day.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := NextRun(s.Now(), s.hour)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	summary, err := s.summaries.Build(ctx)
	if err != nil {
		s.log.WithError(err).Error("daily summary aggregation failed")
		return
	}

	records, err := s.dispatcher.Dispatch(ctx, models.NotificationJob{
		Kind:       models.JobKindDailySummary,
		Summary:    summary,
		Recipients: s.recipients,
	})
	if err != nil {
		s.log.WithError(err).Error("daily summary dispatch failed")
		return
	}

	if failed := models.FailedRecipients(records); len(failed) > 0 {
		s.log.WithField("recipients", failed).Warn("daily summary partially failed")
	}
}

// NextRun returns the next occurrence of the given hour after now.
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
