package services_test

import (
	"testing"
	"time"

	"greenwatch/internal/models"
	"greenwatch/internal/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func snapshotFixture() []models.Report {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	mk := func(status models.ReportStatus, category models.ReportCategory, desc, address string, age time.Duration) models.Report {
		created := base.Add(-age)
		return models.Report{
			ID:          primitive.NewObjectID(),
			Category:    category,
			Description: desc,
			Location:    models.ReportLocation{Address: address},
			Status:      status,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}
	return []models.Report{
		mk(models.StatusPending, models.CategoryLitter, "Litter near the school", "5 Shevchenka St", time.Hour),
		mk(models.StatusPending, models.CategoryBlockedDrain, "Drain flooded again", "Park entrance", 2*time.Hour),
		mk(models.StatusInProgress, models.CategoryIllegalDumping, "Tires dumped in the woods", "Forest road", 30*time.Hour),
		mk(models.StatusPending, models.CategoryOverflowingBin, "Bin overflowing for days", "Central square", 40*time.Hour),
		mk(models.StatusInProgress, models.CategoryLitter, "Broken glass on the path", "River park", 50*time.Hour),
		mk(models.StatusResolved, models.CategoryOther, "Oil slick reported", "Harbor", 70*time.Hour),
	}
}

func TestFilterByStatus(t *testing.T) {
	snapshot := snapshotFixture()
	pending := models.StatusPending

	got := services.FilterReports(snapshot, services.ReportFilter{Status: &pending})
	if len(got) != 3 {
		t.Fatalf("pending = %d, want 3", len(got))
	}
	for _, report := range got {
		if report.Status != models.StatusPending {
			t.Errorf("non-pending report %q slipped through", report.Description)
		}
	}
}

func TestFilterStatusAndCutoffCanBeEmpty(t *testing.T) {
	snapshot := snapshotFixture()
	resolved := models.StatusResolved
	cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	got := services.FilterReports(snapshot, services.ReportFilter{Status: &resolved, Since: &cutoff})
	if len(got) != 0 {
		t.Fatalf("got %d reports, want an empty result", len(got))
	}
}

func TestFilterFreeTextIsCaseInsensitive(t *testing.T) {
	snapshot := snapshotFixture()

	cases := []struct {
		query string
		want  int
	}{
		{"LITTER", 2},    // category of two reports, description of one
		{"park", 2},      // matches two addresses
		{"drain", 1},     // category and description of the same report
		{"dumping", 1},   // category label
		{"nosuchterm", 0},
	}

	for _, tc := range cases {
		got := services.FilterReports(snapshot, services.ReportFilter{Query: tc.query})
		if len(got) != tc.want {
			t.Errorf("query %q matched %d reports, want %d", tc.query, len(got), tc.want)
		}
	}
}

func TestFilterPreservesOrderAndInput(t *testing.T) {
	snapshot := snapshotFixture()
	original := make([]models.Report, len(snapshot))
	copy(original, snapshot)

	got := services.FilterReports(snapshot, services.ReportFilter{})
	if len(got) != len(snapshot) {
		t.Fatalf("empty filter dropped reports: %d of %d", len(got), len(snapshot))
	}
	for i := range got {
		if got[i].ID != snapshot[i].ID {
			t.Fatalf("order changed at index %d", i)
		}
	}

	for i := range original {
		if snapshot[i].ID != original[i].ID || snapshot[i].Status != original[i].Status {
			t.Fatalf("input snapshot mutated at index %d", i)
		}
	}
}

func TestFilterCombinedConditions(t *testing.T) {
	snapshot := snapshotFixture()
	inProgress := models.StatusInProgress
	cutoff := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)

	got := services.FilterReports(snapshot, services.ReportFilter{
		Status: &inProgress,
		Since:  &cutoff,
		Query:  "woods",
	})
	if len(got) != 1 {
		t.Fatalf("got %d reports, want 1", len(got))
	}
	if got[0].Description != "Tires dumped in the woods" {
		t.Errorf("wrong report matched: %q", got[0].Description)
	}
}
