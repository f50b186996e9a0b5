package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"greenwatch/internal/models"
	"greenwatch/internal/services"
	"greenwatch/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubChannel records every send and fails or stalls on demand.
type stubChannel struct {
	mu       sync.Mutex
	failFor  map[string]error
	stallFor map[string]bool
	sends    []stubSend
}

type stubSend struct {
	Recipient string
	Body      string
	MediaURL  string
}

func (c *stubChannel) Send(ctx context.Context, recipient, body, mediaURL string) (string, error) {
	c.mu.Lock()
	c.sends = append(c.sends, stubSend{Recipient: recipient, Body: body, MediaURL: mediaURL})
	stall := c.stallFor[recipient]
	err := c.failFor[recipient]
	c.mu.Unlock()

	if stall {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return "SM-" + recipient, nil
}

func (c *stubChannel) sendCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sends)
}

func sampleReport() *models.Report {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	return &models.Report{
		ID:          primitive.NewObjectID(),
		Category:    models.CategoryIllegalDumping,
		Description: "Construction waste dumped by the river",
		Location: models.ReportLocation{
			Coordinates: &models.GeoPoint{Latitude: 46.7545, Longitude: 33.3726},
			Address:     "River embankment, north end",
		},
		PhotoURL:  "https://storage.example.com/photos/waste.jpg",
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDispatchReturnsOneRecordPerRecipientInOrder(t *testing.T) {
	ch := &stubChannel{}
	deliveries := store.NewMemoryDeliveryStore()
	d := services.NewDispatcher(ch, deliveries, time.Second, quietLogger())

	recipients := []string{"+380501111111", "+380502222222", "+380503333333", "+380504444444", "+380505555555"}
	records, err := d.Dispatch(context.Background(), models.NotificationJob{
		Kind:       models.JobKindNewReportAlert,
		Report:     sampleReport(),
		Recipients: recipients,
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(records) != len(recipients) {
		t.Fatalf("records = %d, want %d", len(records), len(recipients))
	}
	for i, rec := range records {
		if rec.Recipient != recipients[i] {
			t.Errorf("records[%d].Recipient = %q, want %q", i, rec.Recipient, recipients[i])
		}
		if rec.Outcome != models.DeliverySent {
			t.Errorf("records[%d].Outcome = %q, want sent", i, rec.Outcome)
		}
		if rec.ChannelMessageID == "" {
			t.Errorf("records[%d] has no channel message id", i)
		}
		if rec.JobID == "" {
			t.Errorf("records[%d] has no job id", i)
		}
	}
}

func TestDispatchPartialFailureIsolated(t *testing.T) {
	ch := &stubChannel{failFor: map[string]error{
		"+380502222222": fmt.Errorf("unreachable destination"),
	}}
	d := services.NewDispatcher(ch, store.NewMemoryDeliveryStore(), time.Second, quietLogger())

	records, err := d.Dispatch(context.Background(), models.NotificationJob{
		Kind:       models.JobKindNewReportAlert,
		Report:     sampleReport(),
		Recipients: []string{"+380501111111", "+380502222222", "+380503333333"},
	})
	if err != nil {
		t.Fatalf("partial failure must not fail the dispatch: %v", err)
	}

	if records[0].Outcome != models.DeliverySent || records[2].Outcome != models.DeliverySent {
		t.Error("healthy recipients affected by a failing one")
	}
	if records[1].Outcome != models.DeliveryFailed {
		t.Fatalf("records[1].Outcome = %q, want failed", records[1].Outcome)
	}
	if !strings.Contains(records[1].ErrorReason, "unreachable") {
		t.Errorf("error reason = %q", records[1].ErrorReason)
	}

	failed := models.FailedRecipients(records)
	if len(failed) != 1 || failed[0] != "+380502222222" {
		t.Errorf("failed recipients = %v", failed)
	}
}

func TestDispatchNoRecipients(t *testing.T) {
	ch := &stubChannel{}
	d := services.NewDispatcher(ch, store.NewMemoryDeliveryStore(), time.Second, quietLogger())

	_, err := d.Dispatch(context.Background(), models.NotificationJob{
		Kind:   models.JobKindNewReportAlert,
		Report: sampleReport(),
	})
	if !errors.Is(err, services.ErrNoRecipients) {
		t.Fatalf("err = %v, want ErrNoRecipients", err)
	}
	if ch.sendCount() != 0 {
		t.Errorf("channel contacted %d times for an empty recipient list", ch.sendCount())
	}
}

func TestDispatchTimeoutRecordedAsFailed(t *testing.T) {
	ch := &stubChannel{stallFor: map[string]bool{"+380502222222": true}}
	d := services.NewDispatcher(ch, store.NewMemoryDeliveryStore(), 30*time.Millisecond, quietLogger())

	records, err := d.Dispatch(context.Background(), models.NotificationJob{
		Kind:       models.JobKindNewReportAlert,
		Report:     sampleReport(),
		Recipients: []string{"+380501111111", "+380502222222"},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if records[0].Outcome != models.DeliverySent {
		t.Error("fast recipient held up by the stalled one")
	}
	if records[1].Outcome != models.DeliveryFailed {
		t.Fatalf("stalled recipient outcome = %q, want failed", records[1].Outcome)
	}
	if records[1].ErrorReason != services.ReasonTimeout {
		t.Errorf("error reason = %q, want %q", records[1].ErrorReason, services.ReasonTimeout)
	}
}

func TestDispatchMediaOnlyForReportAlerts(t *testing.T) {
	ch := &stubChannel{}
	d := services.NewDispatcher(ch, store.NewMemoryDeliveryStore(), time.Second, quietLogger())

	report := sampleReport()
	if _, err := d.Dispatch(context.Background(), models.NotificationJob{
		Kind:       models.JobKindNewReportAlert,
		Report:     report,
		Recipients: []string{"+380501111111"},
	}); err != nil {
		t.Fatalf("alert dispatch: %v", err)
	}
	if _, err := d.Dispatch(context.Background(), models.NotificationJob{
		Kind:       models.JobKindDailySummary,
		Summary:    &models.Summary{Date: time.Now(), Total: 1, Pending: 1},
		Recipients: []string{"+380501111111"},
	}); err != nil {
		t.Fatalf("summary dispatch: %v", err)
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.sends) != 2 {
		t.Fatalf("sends = %d, want 2", len(ch.sends))
	}
	if ch.sends[0].MediaURL != report.PhotoURL {
		t.Errorf("alert media url = %q, want %q", ch.sends[0].MediaURL, report.PhotoURL)
	}
	if ch.sends[1].MediaURL != "" {
		t.Errorf("summary media url = %q, want empty", ch.sends[1].MediaURL)
	}
}

func TestDispatchPersistsRecordsUnderJobID(t *testing.T) {
	deliveries := store.NewMemoryDeliveryStore()
	d := services.NewDispatcher(&stubChannel{}, deliveries, time.Second, quietLogger())

	report := sampleReport()
	records, err := d.Dispatch(context.Background(), models.NotificationJob{
		ID:         "job-123",
		Kind:       models.JobKindNewReportAlert,
		Report:     report,
		Recipients: []string{"+380501111111", "+380502222222"},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	stored, err := deliveries.ListByJob(context.Background(), "job-123")
	if err != nil {
		t.Fatalf("list by job: %v", err)
	}
	if len(stored) != len(records) {
		t.Fatalf("stored = %d, want %d", len(stored), len(records))
	}
	for _, rec := range stored {
		if rec.ReportID == nil || *rec.ReportID != report.ID {
			t.Errorf("record for %s missing report id", rec.Recipient)
		}
	}
}
