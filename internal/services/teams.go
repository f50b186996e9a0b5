// internal/services/teams.go
package services

import (
	"context"
	"time"

	"greenwatch/internal/models"
	"greenwatch/internal/store"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamService manages the responder-team roster.
type TeamService struct {
	teams   store.TeamStore
	reports store.ReportStore
	log     *logrus.Logger

	Now func() time.Time
}

func NewTeamService(teams store.TeamStore, reports store.ReportStore, log *logrus.Logger) *TeamService {
	return &TeamService{teams: teams, reports: reports, log: log, Now: time.Now}
}

func (s *TeamService) Create(ctx context.Context, name, specialty string) (*models.Team, error) {
	now := s.Now()
	team := &models.Team{
		Name:      name,
		Specialty: specialty,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.teams.Insert(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) Get(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	return s.teams.Get(ctx, id)
}

func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	return s.teams.List(ctx)
}

func (s *TeamService) Update(ctx context.Context, id primitive.ObjectID, name, specialty string, isActive bool) (*models.Team, error) {
	team, err := s.teams.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	team.Name = name
	team.Specialty = specialty
	team.IsActive = isActive
	team.UpdatedAt = s.Now()

	if err := s.teams.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// Delete removes a team and clears its assignment from every report that
// pointed to it. The reports themselves survive.
func (s *TeamService) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := s.teams.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	cleared, err := s.reports.ClearTeam(ctx, id)
	if err != nil {
		return true, err
	}
	if cleared > 0 {
		s.log.WithFields(logrus.Fields{
			"team_id": id.Hex(),
			"reports": cleared,
		}).Info("cleared team assignment from reports")
	}
	return true, nil
}
