// internal/services/lifecycle.go
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"greenwatch/internal/models"
	"greenwatch/internal/store"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportService is the sole authority for report status and assignment.
// Every mutation goes through it; handlers never write to the store
// directly.
type ReportService struct {
	reports store.ReportStore
	teams   store.TeamStore
	log     *logrus.Logger

	// Now is swappable in tests.
	Now func() time.Time

	// One lock per report id keeps concurrent transitions on the same
	// report from interleaving. Different ids proceed independently.
	locksMutex sync.Mutex
	locks      map[primitive.ObjectID]*sync.Mutex
}

type CreateReportInput struct {
	Category    models.ReportCategory
	Description string
	Location    models.ReportLocation
	PhotoURL    string
}

type StatusUpdateInput struct {
	Status models.ReportStatus
	Note   string
	Author string
}

func NewReportService(reports store.ReportStore, teams store.TeamStore, log *logrus.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		teams:   teams,
		log:     log,
		Now:     time.Now,
		locks:   make(map[primitive.ObjectID]*sync.Mutex),
	}
}

func (s *ReportService) lockFor(id primitive.ObjectID) *sync.Mutex {
	s.locksMutex.Lock()
	defer s.locksMutex.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// Create validates a submission and stores it in Pending. Validation
// failures happen before the store is touched.
func (s *ReportService) Create(ctx context.Context, input CreateReportInput) (*models.Report, error) {
	if !input.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if strings.TrimSpace(input.PhotoURL) == "" {
		return nil, ErrMissingPhoto
	}
	if input.Location.IsEmpty() {
		return nil, ErrMissingLocation
	}
	if len(input.Description) > models.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	now := s.Now()
	report := &models.Report{
		Category:    input.Category,
		Description: input.Description,
		Location:    input.Location,
		PhotoURL:    input.PhotoURL,
		Status:      models.StatusPending,
		Notes:       []models.ReportNote{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.reports.Insert(ctx, report); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"report_id": report.ID.Hex(),
		"category":  report.Category,
	}).Info("report created")

	return report, nil
}

func (s *ReportService) Get(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	return s.reports.Get(ctx, id)
}

func (s *ReportService) List(ctx context.Context) ([]models.Report, error) {
	return s.reports.List(ctx)
}

// UpdateStatus moves a report to the requested status. Any enumerated
// target is reachable from any state, including a direct Pending to
// Resolved fast close and reopening out of Resolved. Only a value
// outside the enumerated set is rejected.
func (s *ReportService) UpdateStatus(ctx context.Context, id primitive.ObjectID, input StatusUpdateInput) (*models.Report, error) {
	if !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	report, err := s.reports.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := report.Status
	now := s.touch(report)
	report.Status = input.Status

	switch {
	case input.Status == models.StatusResolved && previous != models.StatusResolved:
		resolvedAt := now
		report.ResolvedAt = &resolvedAt
	case input.Status != models.StatusResolved:
		// Reopening clears the resolution timestamp.
		report.ResolvedAt = nil
	}

	if strings.TrimSpace(input.Note) != "" {
		report.Notes = append(report.Notes, models.ReportNote{
			Content:   input.Note,
			Author:    input.Author,
			CreatedAt: now,
		})
	}

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"report_id": report.ID.Hex(),
		"from":      previous,
		"to":        report.Status,
	}).Info("report status updated")

	return report, nil
}

// AssignTeam sets or clears the team on a report. Assignment is
// orthogonal to status and is allowed in any state.
func (s *ReportService) AssignTeam(ctx context.Context, id primitive.ObjectID, teamID *primitive.ObjectID) (*models.Report, error) {
	var team *models.Team
	if teamID != nil {
		var err error
		team, err = s.teams.Get(ctx, *teamID)
		if err != nil {
			return nil, fmt.Errorf("team %s: %w", teamID.Hex(), err)
		}
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	report, err := s.reports.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.touch(report)
	if team != nil {
		report.AssignedTeamID = &team.ID
		report.AssignedTeamName = team.Name
	} else {
		report.AssignedTeamID = nil
		report.AssignedTeamName = ""
	}

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// AddNote appends a staff note without touching status or assignment.
func (s *ReportService) AddNote(ctx context.Context, id primitive.ObjectID, content, author string) (*models.Report, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	report, err := s.reports.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.touch(report)
	report.Notes = append(report.Notes, models.ReportNote{
		Content:   content,
		Author:    author,
		CreatedAt: now,
	})

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Delete removes a report permanently.
func (s *ReportService) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := s.reports.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	s.locksMutex.Lock()
	delete(s.locks, id)
	s.locksMutex.Unlock()

	return deleted, nil
}

// touch advances UpdatedAt, keeping it strictly increasing even when the
// clock resolution would otherwise produce an equal timestamp.
func (s *ReportService) touch(report *models.Report) time.Time {
	now := s.Now()
	if !now.After(report.UpdatedAt) {
		now = report.UpdatedAt.Add(time.Millisecond)
	}
	report.UpdatedAt = now
	return now
}
