// internal/store/memory.go
package store

import (
	"context"
	"sort"
	"sync"

	"greenwatch/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryReportStore is a map-backed ReportStore used in tests and as a
// fallback when no database is configured.
type MemoryReportStore struct {
	mutex   sync.RWMutex
	reports map[primitive.ObjectID]models.Report
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: make(map[primitive.ObjectID]models.Report)}
}

func (s *MemoryReportStore) Insert(ctx context.Context, report *models.Report) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	s.reports[report.ID] = *report
	return nil
}

func (s *MemoryReportStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &report, nil
}

func (s *MemoryReportStore) List(ctx context.Context) ([]models.Report, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	reports := make([]models.Report, 0, len(s.reports))
	for _, report := range s.reports {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

func (s *MemoryReportStore) Update(ctx context.Context, report *models.Report) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.reports[report.ID]; !ok {
		return ErrNotFound
	}
	s.reports[report.ID] = *report
	return nil
}

func (s *MemoryReportStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.reports[id]; !ok {
		return false, nil
	}
	delete(s.reports, id)
	return true, nil
}

func (s *MemoryReportStore) ClearTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var cleared int64
	for id, report := range s.reports {
		if report.AssignedTeamID != nil && *report.AssignedTeamID == teamID {
			report.AssignedTeamID = nil
			report.AssignedTeamName = ""
			s.reports[id] = report
			cleared++
		}
	}
	return cleared, nil
}

type MemoryTeamStore struct {
	mutex sync.RWMutex
	teams map[primitive.ObjectID]models.Team
}

func NewMemoryTeamStore() *MemoryTeamStore {
	return &MemoryTeamStore{teams: make(map[primitive.ObjectID]models.Team)}
}

func (s *MemoryTeamStore) Insert(ctx context.Context, team *models.Team) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}
	s.teams[team.ID] = *team
	return nil
}

func (s *MemoryTeamStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	team, ok := s.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &team, nil
}

func (s *MemoryTeamStore) List(ctx context.Context) ([]models.Team, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	teams := make([]models.Team, 0, len(s.teams))
	for _, team := range s.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (s *MemoryTeamStore) Update(ctx context.Context, team *models.Team) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.teams[team.ID]; !ok {
		return ErrNotFound
	}
	s.teams[team.ID] = *team
	return nil
}

func (s *MemoryTeamStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.teams[id]; !ok {
		return false, nil
	}
	delete(s.teams, id)
	return true, nil
}

type MemoryDeliveryStore struct {
	mutex   sync.RWMutex
	records []models.DeliveryRecord
}

func NewMemoryDeliveryStore() *MemoryDeliveryStore {
	return &MemoryDeliveryStore{}
}

func (s *MemoryDeliveryStore) InsertMany(ctx context.Context, records []models.DeliveryRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, record := range records {
		if record.ID.IsZero() {
			record.ID = primitive.NewObjectID()
		}
		s.records = append(s.records, record)
	}
	return nil
}

func (s *MemoryDeliveryStore) ListByJob(ctx context.Context, jobID string) ([]models.DeliveryRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	matched := []models.DeliveryRecord{}
	for _, record := range s.records {
		if record.JobID == jobID {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (s *MemoryDeliveryStore) ListRecent(ctx context.Context, limit int64) ([]models.DeliveryRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	records := make([]models.DeliveryRecord, len(s.records))
	copy(records, s.records)
	sort.Slice(records, func(i, j int) bool {
		return records[i].AttemptedAt.After(records[j].AttemptedAt)
	})
	if limit > 0 && int64(len(records)) > limit {
		records = records[:limit]
	}
	return records, nil
}
