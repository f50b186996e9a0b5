// internal/services/summary.go
package services

import (
	"context"
	"sort"
	"time"

	"greenwatch/internal/models"
	"greenwatch/internal/store"

	"github.com/montanaflynn/stats"
)

const topListSize = 3

// SummaryService builds the daily Summary aggregate from a store
// snapshot. Ranking happens here; the formatter renders lists as given.
type SummaryService struct {
	reports store.ReportStore

	Now func() time.Time
}

func NewSummaryService(reports store.ReportStore) *SummaryService {
	return &SummaryService{reports: reports, Now: time.Now}
}

func (s *SummaryService) Build(ctx context.Context) (*models.Summary, error) {
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	summary := &models.Summary{Date: now, Total: len(reports)}

	categoryCounts := map[string]int{}
	locationCounts := map[string]int{}
	var resolutionHours []float64

	for _, report := range reports {
		switch report.Status {
		case models.StatusPending:
			summary.Pending++
		case models.StatusInProgress:
			summary.InProgress++
		case models.StatusResolved:
			summary.Resolved++
		}
		if now.Sub(report.CreatedAt) < 24*time.Hour {
			summary.New++
		}

		categoryCounts[report.Category.Label()]++
		if report.Location.Address != "" {
			locationCounts[report.Location.Address]++
		}
		if report.ResolvedAt != nil {
			resolutionHours = append(resolutionHours, report.ResolvedAt.Sub(report.CreatedAt).Hours())
		}
	}

	summary.TopCategories = rank(categoryCounts, topListSize)
	summary.TopLocations = rank(locationCounts, topListSize)

	if len(resolutionHours) > 0 {
		// stats errors only on empty input, which is excluded above.
		summary.MeanResolutionHours, _ = stats.Mean(resolutionHours)
		summary.MedianResolutionHours, _ = stats.Median(resolutionHours)
	}

	return summary, nil
}

// rank orders labels by descending count, breaking ties alphabetically,
// and keeps the top n.
func rank(counts map[string]int, n int) []models.RankEntry {
	entries := make([]models.RankEntry, 0, len(counts))
	for label, count := range counts {
		entries = append(entries, models.RankEntry{Label: label, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
