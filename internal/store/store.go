// internal/store/store.go
package store

import (
	"context"
	"errors"

	"greenwatch/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when an id does not exist in the store.
var ErrNotFound = errors.New("not found")

// ReportStore is the persistence boundary for reports. The lifecycle
// service owns all semantics; the store only moves documents.
type ReportStore interface {
	Insert(ctx context.Context, report *models.Report) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	// List returns all reports, newest first.
	List(ctx context.Context) ([]models.Report, error)
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	// ClearTeam removes the given team assignment from every report that
	// carries it and returns how many reports were touched.
	ClearTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error)
}

type TeamStore interface {
	Insert(ctx context.Context, team *models.Team) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// DeliveryStore keeps per-recipient dispatch outcomes for auditing and
// failed-subset retries.
type DeliveryStore interface {
	InsertMany(ctx context.Context, records []models.DeliveryRecord) error
	ListByJob(ctx context.Context, jobID string) ([]models.DeliveryRecord, error)
	ListRecent(ctx context.Context, limit int64) ([]models.DeliveryRecord, error)
}
