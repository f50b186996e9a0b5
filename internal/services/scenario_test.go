package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"greenwatch/internal/models"
	"greenwatch/internal/services"
	"greenwatch/internal/store"
)

// Walks one report through its whole life: submission, alert fan-out,
// team pickup, resolution.
func TestReportLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	reportStore := store.NewMemoryReportStore()
	teamStore := store.NewMemoryTeamStore()
	deliveryStore := store.NewMemoryDeliveryStore()
	log := quietLogger()

	reports := services.NewReportService(reportStore, teamStore, log)
	teams := services.NewTeamService(teamStore, reportStore, log)
	dispatcher := services.NewDispatcher(&stubChannel{}, deliveryStore, time.Second, log)

	report, err := reports.Create(ctx, services.CreateReportInput{
		Category:    models.CategoryBlockedDrain,
		Description: "Drain blocked at the crossing",
		Location: models.ReportLocation{
			Coordinates: &models.GeoPoint{Latitude: 46.75, Longitude: 33.37},
			Address:     "Soborna St crossing",
		},
		PhotoURL: "https://storage.example.com/photos/crossing.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if report.Status != models.StatusPending {
		t.Fatalf("fresh report status = %q", report.Status)
	}

	records, err := dispatcher.Dispatch(ctx, models.NotificationJob{
		Kind:       models.JobKindNewReportAlert,
		Report:     report,
		Recipients: []string{"+380501111111", "+380502222222"},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Outcome != models.DeliverySent {
			t.Errorf("recipient %s outcome = %q", rec.Recipient, rec.Outcome)
		}
	}

	team, err := teams.Create(ctx, "Drainage crew", "drainage")
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	report, err = reports.AssignTeam(ctx, report.ID, &team.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	report, err = reports.UpdateStatus(ctx, report.ID, services.StatusUpdateInput{
		Status: models.StatusInProgress,
		Note:   "Crew on site",
		Author: "dispatcher@example.com",
	})
	if err != nil {
		t.Fatalf("to in_progress: %v", err)
	}
	if report.AssignedTeamName != "Drainage crew" {
		t.Errorf("assignment lost across status change: %q", report.AssignedTeamName)
	}

	report, err = reports.UpdateStatus(ctx, report.ID, services.StatusUpdateInput{Status: models.StatusResolved})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if report.ResolvedAt == nil {
		t.Fatal("resolved report has no resolvedAt")
	}
	if len(report.Notes) != 1 || !strings.Contains(report.Notes[0].Content, "Crew on site") {
		t.Errorf("notes = %+v", report.Notes)
	}

	// The alert body for this report carries its coordinates.
	body := services.RenderNewReportAlert(report)
	if !strings.Contains(body, "Map: https://maps.google.com/?q=46.750000,33.370000") {
		t.Errorf("alert body missing map link:\n%s", body)
	}
}
