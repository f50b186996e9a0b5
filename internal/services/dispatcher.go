// internal/services/dispatcher.go
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"greenwatch/internal/channel"
	"greenwatch/internal/models"
	"greenwatch/internal/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const ReasonTimeout = "timeout"

// Dispatcher fans one NotificationJob out to every recipient on the job,
// concurrently, and returns one DeliveryRecord per recipient in input
// order. A failed send never blocks the others and never surfaces as a
// dispatch error; partial failure is data for the caller to act on.
type Dispatcher struct {
	channel     channel.MessageChannel
	deliveries  store.DeliveryStore
	sendTimeout time.Duration
	log         *logrus.Logger

	Now func() time.Time
}

func NewDispatcher(ch channel.MessageChannel, deliveries store.DeliveryStore, sendTimeout time.Duration, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		channel:     ch,
		deliveries:  deliveries,
		sendTimeout: sendTimeout,
		log:         log,
		Now:         time.Now,
	}
}

// Dispatch attempts every recipient exactly once. It does not retry;
// re-dispatching the failed subset is the caller's decision.
func (d *Dispatcher) Dispatch(ctx context.Context, job models.NotificationJob) ([]models.DeliveryRecord, error) {
	if len(job.Recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	body := RenderMessage(job)
	mediaURL := ""
	if job.Kind == models.JobKindNewReportAlert && job.Report != nil {
		mediaURL = job.Report.PhotoURL
	}

	records := make([]models.DeliveryRecord, len(job.Recipients))
	var wg sync.WaitGroup

	for i, recipient := range job.Recipients {
		wg.Add(1)
		go func(i int, recipient string) {
			defer wg.Done()
			records[i] = d.sendOne(ctx, job, recipient, body, mediaURL)
		}(i, recipient)
	}
	wg.Wait()

	sent, failed := 0, 0
	for _, record := range records {
		if record.Failed() {
			failed++
		} else {
			sent++
		}
	}
	d.log.WithFields(logrus.Fields{
		"job_id": job.ID,
		"kind":   job.Kind,
		"sent":   sent,
		"failed": failed,
	}).Info("notification job dispatched")

	if d.deliveries != nil {
		if err := d.deliveries.InsertMany(ctx, records); err != nil {
			d.log.WithError(err).Warn("could not persist delivery records")
		}
	}

	return records, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, job models.NotificationJob, recipient, body, mediaURL string) models.DeliveryRecord {
	record := models.DeliveryRecord{
		JobID:       job.ID,
		Kind:        job.Kind,
		Recipient:   recipient,
		AttemptedAt: d.Now(),
	}
	if job.Report != nil && !job.Report.ID.IsZero() {
		reportID := job.Report.ID
		record.ReportID = &reportID
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	messageID, err := d.channel.Send(sendCtx, recipient, body, mediaURL)
	if err != nil {
		record.Outcome = models.DeliveryFailed
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(sendCtx.Err(), context.DeadlineExceeded) {
			record.ErrorReason = ReasonTimeout
		} else {
			record.ErrorReason = err.Error()
		}
		return record
	}

	record.Outcome = models.DeliverySent
	record.ChannelMessageID = messageID
	return record
}
