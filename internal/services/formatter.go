// internal/services/formatter.go
package services

import (
	"fmt"
	"strings"

	"greenwatch/internal/models"
	"greenwatch/internal/utils"
)

// Message rendering is pure and deterministic: no clock, no store, no
// network. Missing optional fields drop their line instead of failing.

// RenderMessage picks the renderer for a job's kind.
func RenderMessage(job models.NotificationJob) string {
	switch job.Kind {
	case models.JobKindDailySummary:
		return RenderDailySummary(job.Summary)
	default:
		return RenderNewReportAlert(job.Report)
	}
}

// RenderNewReportAlert builds the alert text for a freshly submitted
// report: category, description, location, status, and a map link when
// coordinates are known.
func RenderNewReportAlert(report *models.Report) string {
	if report == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("New environmental report\n")
	fmt.Fprintf(&b, "Category: %s\n", report.Category.Label())
	fmt.Fprintf(&b, "Status: %s\n", report.Status.Label())

	if report.Location.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", report.Location.Address)
	}
	if report.Location.Coordinates != nil {
		coords := *report.Location.Coordinates
		fmt.Fprintf(&b, "Coordinates: %.6f, %.6f\n", coords.Latitude, coords.Longitude)
		fmt.Fprintf(&b, "Map: %s\n", utils.MapsLink(coords))
	}

	if report.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", report.Description)
	}

	return b.String()
}

// RenderDailySummary builds the digest text. Ranked sections appear only
// when non-empty and keep the order the aggregation produced.
func RenderDailySummary(summary *models.Summary) string {
	if summary == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily report summary — %s\n", summary.Date.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "Total reports: %d\n", summary.Total)
	fmt.Fprintf(&b, "New: %d | Pending: %d | In progress: %d | Resolved: %d\n",
		summary.New, summary.Pending, summary.InProgress, summary.Resolved)

	if summary.MeanResolutionHours > 0 {
		fmt.Fprintf(&b, "Resolution time: %.1fh mean, %.1fh median\n",
			summary.MeanResolutionHours, summary.MedianResolutionHours)
	}

	if len(summary.TopCategories) > 0 {
		b.WriteString("Top issues:\n")
		for i, entry := range summary.TopCategories {
			fmt.Fprintf(&b, "  %d. %s — %d\n", i+1, entry.Label, entry.Count)
		}
	}

	if len(summary.TopLocations) > 0 {
		b.WriteString("Top locations:\n")
		for i, entry := range summary.TopLocations {
			fmt.Fprintf(&b, "  %d. %s — %d\n", i+1, entry.Label, entry.Count)
		}
	}

	return b.String()
}
