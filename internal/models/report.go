// internal/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus is the closed status set owned by the lifecycle service.
// Handlers and views consume it, they never redefine it.
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
)

func (s ReportStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

type ReportCategory string

const (
	CategoryIllegalDumping ReportCategory = "illegal_dumping"
	CategoryBlockedDrain   ReportCategory = "blocked_drain"
	CategoryOverflowingBin ReportCategory = "overflowing_bin"
	CategoryLitter         ReportCategory = "litter"
	CategoryOther          ReportCategory = "other"
)

func (c ReportCategory) IsValid() bool {
	switch c {
	case CategoryIllegalDumping, CategoryBlockedDrain, CategoryOverflowingBin, CategoryLitter, CategoryOther:
		return true
	}
	return false
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// ReportLocation carries coordinates, a free-text address, or both.
// At least one of the two is required at creation.
type ReportLocation struct {
	Coordinates *GeoPoint `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Address     string    `bson:"address" json:"address"`
}

func (l ReportLocation) IsEmpty() bool {
	return l.Coordinates == nil && l.Address == ""
}

type ReportNote struct {
	Content   string    `bson:"content" json:"content"`
	Author    string    `bson:"author" json:"author"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Report struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	Category    ReportCategory `bson:"category" json:"category"`
	Description string         `bson:"description" json:"description"`
	Location    ReportLocation `bson:"location" json:"location"`
	PhotoURL    string         `bson:"photo_url" json:"photo_url"`

	Status           ReportStatus        `bson:"status" json:"status"`
	AssignedTeamID   *primitive.ObjectID `bson:"assigned_team_id,omitempty" json:"assigned_team_id,omitempty"`
	AssignedTeamName string              `bson:"assigned_team_name,omitempty" json:"assigned_team_name,omitempty"`

	// Notes are append-only; staff additions never replace earlier entries.
	Notes []ReportNote `bson:"notes" json:"notes"`

	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	ResolvedAt *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

const MaxDescriptionLength = 500

func (r *Report) IsResolved() bool {
	return r.Status == StatusResolved
}

func (r *Report) HasCoordinates() bool {
	return r.Location.Coordinates != nil
}

func (r *Report) DaysOpen() int {
	if r.IsResolved() && r.ResolvedAt != nil {
		return int(r.ResolvedAt.Sub(r.CreatedAt).Hours() / 24)
	}
	return int(time.Since(r.CreatedAt).Hours() / 24)
}

// Categories returns the closed category set in display order.
func Categories() []ReportCategory {
	return []ReportCategory{
		CategoryIllegalDumping,
		CategoryBlockedDrain,
		CategoryOverflowingBin,
		CategoryLitter,
		CategoryOther,
	}
}

var categoryLabels = map[ReportCategory]string{
	CategoryIllegalDumping: "Illegal dumping",
	CategoryBlockedDrain:   "Blocked drain",
	CategoryOverflowingBin: "Overflowing bin",
	CategoryLitter:         "Litter",
	CategoryOther:          "Other",
}

func (c ReportCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

var statusLabels = map[ReportStatus]string{
	StatusPending:    "Pending",
	StatusInProgress: "In progress",
	StatusResolved:   "Resolved",
}

func (s ReportStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
