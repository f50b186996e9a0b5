// internal/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobKind tags the payload of a NotificationJob so the formatter is
// exhaustive over the two message shapes.
type JobKind string

const (
	JobKindNewReportAlert JobKind = "new_report_alert"
	JobKindDailySummary   JobKind = "daily_summary"
)

// NotificationJob is one logical notification fanned out to a recipient
// list. The recipient slice is a snapshot taken at dispatch time.
type NotificationJob struct {
	ID         string   `bson:"job_id" json:"job_id"`
	Kind       JobKind  `bson:"kind" json:"kind"`
	Report     *Report  `bson:"report,omitempty" json:"report,omitempty"`
	Summary    *Summary `bson:"summary,omitempty" json:"summary,omitempty"`
	Recipients []string `bson:"recipients" json:"recipients"`
}

type DeliveryOutcome string

const (
	DeliverySent   DeliveryOutcome = "sent"
	DeliveryFailed DeliveryOutcome = "failed"
)

// DeliveryRecord is the outcome of one send attempt to one recipient.
// A job's result is the ordered list of its records, one per recipient.
type DeliveryRecord struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	JobID            string              `bson:"job_id" json:"job_id"`
	Kind             JobKind             `bson:"kind" json:"kind"`
	Recipient        string              `bson:"recipient" json:"recipient"`
	ReportID         *primitive.ObjectID `bson:"report_id,omitempty" json:"report_id,omitempty"`
	Outcome          DeliveryOutcome     `bson:"outcome" json:"outcome"`
	ChannelMessageID string              `bson:"channel_message_id,omitempty" json:"channel_message_id,omitempty"`
	ErrorReason      string              `bson:"error_reason,omitempty" json:"error_reason,omitempty"`
	AttemptedAt      time.Time           `bson:"attempted_at" json:"attempted_at"`
}

func (r DeliveryRecord) Failed() bool {
	return r.Outcome == DeliveryFailed
}

// RankEntry is one row of a ranked list (already ordered by the caller).
type RankEntry struct {
	Label string `bson:"label" json:"label"`
	Count int    `bson:"count" json:"count"`
}

// Summary aggregates the report collection for the daily digest.
type Summary struct {
	Date          time.Time   `bson:"date" json:"date"`
	Total         int         `bson:"total" json:"total"`
	New           int         `bson:"new" json:"new"`
	Pending       int         `bson:"pending" json:"pending"`
	InProgress    int         `bson:"in_progress" json:"in_progress"`
	Resolved      int         `bson:"resolved" json:"resolved"`
	TopCategories []RankEntry `bson:"top_categories" json:"top_categories"`
	TopLocations  []RankEntry `bson:"top_locations" json:"top_locations"`

	// Resolution time statistics over resolved reports, in hours.
	MeanResolutionHours   float64 `bson:"mean_resolution_hours" json:"mean_resolution_hours"`
	MedianResolutionHours float64 `bson:"median_resolution_hours" json:"median_resolution_hours"`
}

// FailedRecipients extracts the recipients of failed records, preserving
// order, for caller-level redispatch.
func FailedRecipients(records []DeliveryRecord) []string {
	var failed []string
	for _, rec := range records {
		if rec.Failed() {
			failed = append(failed, rec.Recipient)
		}
	}
	return failed
}
