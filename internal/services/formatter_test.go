package services_test

import (
	"strings"
	"testing"
	"time"

	"greenwatch/internal/models"
	"greenwatch/internal/services"
)

func TestRenderNewReportAlertWithCoordinates(t *testing.T) {
	body := services.RenderNewReportAlert(sampleReport())

	for _, want := range []string{
		"New environmental report",
		"Category: Illegal dumping",
		"Status: Pending",
		"Address: River embankment, north end",
		"Coordinates: 46.754500, 33.372600",
		"Map: https://maps.google.com/?q=46.754500,33.372600",
		"Description: Construction waste dumped by the river",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("alert missing %q\n%s", want, body)
		}
	}
}

func TestRenderNewReportAlertWithoutCoordinates(t *testing.T) {
	report := sampleReport()
	report.Location.Coordinates = nil
	report.Description = ""

	body := services.RenderNewReportAlert(report)

	if strings.Contains(body, "Map:") || strings.Contains(body, "Coordinates:") {
		t.Errorf("alert renders location lines without coordinates:\n%s", body)
	}
	if strings.Contains(body, "Description:") {
		t.Errorf("alert renders an empty description:\n%s", body)
	}
	if !strings.Contains(body, "Address: River embankment, north end") {
		t.Errorf("address dropped:\n%s", body)
	}
}

func TestRenderNewReportAlertNil(t *testing.T) {
	if body := services.RenderNewReportAlert(nil); body != "" {
		t.Errorf("nil report rendered %q", body)
	}
}

func TestRenderDailySummarySections(t *testing.T) {
	summary := &models.Summary{
		Date:       time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		Total:      7,
		New:        2,
		Pending:    3,
		InProgress: 2,
		Resolved:   2,
		TopCategories: []models.RankEntry{
			{Label: "Illegal dumping", Count: 4},
			{Label: "Litter", Count: 2},
		},
		MeanResolutionHours:   10.5,
		MedianResolutionHours: 8.0,
	}

	body := services.RenderDailySummary(summary)

	if !strings.Contains(body, "01 Jun 2025") {
		t.Errorf("date missing:\n%s", body)
	}
	if !strings.Contains(body, "New: 2 | Pending: 3 | In progress: 2 | Resolved: 2") {
		t.Errorf("counts line wrong:\n%s", body)
	}
	if !strings.Contains(body, "Resolution time: 10.5h mean, 8.0h median") {
		t.Errorf("resolution line wrong:\n%s", body)
	}
	if strings.Contains(body, "Top locations:") {
		t.Errorf("empty ranked section rendered:\n%s", body)
	}

	first := strings.Index(body, "1. Illegal dumping — 4")
	second := strings.Index(body, "2. Litter — 2")
	if first == -1 || second == -1 || second < first {
		t.Errorf("ranked entries missing or reordered:\n%s", body)
	}
}

func TestRenderDailySummaryOmitsResolutionWithoutData(t *testing.T) {
	body := services.RenderDailySummary(&models.Summary{
		Date:    time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		Total:   1,
		Pending: 1,
	})
	if strings.Contains(body, "Resolution time:") {
		t.Errorf("resolution line rendered without resolved reports:\n%s", body)
	}
}

func TestRenderMessageIsDeterministic(t *testing.T) {
	job := models.NotificationJob{
		Kind:   models.JobKindNewReportAlert,
		Report: sampleReport(),
	}
	if services.RenderMessage(job) != services.RenderMessage(job) {
		t.Error("same job rendered differently")
	}
}
