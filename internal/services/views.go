// internal/services/views.go
package services

import (
	"strings"
	"time"

	"greenwatch/internal/models"
)

// ReportFilter is the map/list view filter. All supplied conditions must
// match (logical AND); nil and empty fields are skipped.
type ReportFilter struct {
	Status *models.ReportStatus
	Since  *time.Time
	Query  string
}

// FilterReports returns the subset of a snapshot matching the filter,
// preserving the snapshot's order. The input is never modified; callers
// wanting a particular sort supply a pre-sorted snapshot.
func FilterReports(reports []models.Report, filter ReportFilter) []models.Report {
	matched := []models.Report{}
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	for _, report := range reports {
		if filter.Status != nil && report.Status != *filter.Status {
			continue
		}
		if filter.Since != nil && report.CreatedAt.Before(*filter.Since) {
			continue
		}
		if query != "" && !matchesQuery(report, query) {
			continue
		}
		matched = append(matched, report)
	}
	return matched
}

// matchesQuery does a case-insensitive substring match against the
// description, address, and category.
func matchesQuery(report models.Report, query string) bool {
	if strings.Contains(strings.ToLower(report.Description), query) {
		return true
	}
	if strings.Contains(strings.ToLower(report.Location.Address), query) {
		return true
	}
	if strings.Contains(strings.ToLower(string(report.Category)), query) {
		return true
	}
	return strings.Contains(strings.ToLower(report.Category.Label()), query)
}
