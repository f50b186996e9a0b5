// internal/handlers/report.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"greenwatch/internal/models"
	"greenwatch/internal/services"
	"greenwatch/internal/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportHandler struct {
	reports    *services.ReportService
	summaries  *services.SummaryService
	dispatcher *services.Dispatcher
	recipients []string
	hub        *Hub
}

type CreateReportRequest struct {
	Category    string   `json:"category" binding:"required,reportcategory"`
	Description string   `json:"description" binding:"max=500"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Address     string   `json:"address"`
	PhotoURL    string   `json:"photo_url"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,reportstatus"`
	Note   string `json:"note"`
}

type AssignTeamRequest struct {
	// Empty team_id clears the assignment.
	TeamID string `json:"team_id"`
}

type AddNoteRequest struct {
	Content string `json:"content" binding:"required,min=1,max=500"`
}

func NewReportHandler(
	reports *services.ReportService,
	summaries *services.SummaryService,
	dispatcher *services.Dispatcher,
	recipients []string,
	hub *Hub,
) *ReportHandler {
	return &ReportHandler{
		reports:    reports,
		summaries:  summaries,
		dispatcher: dispatcher,
		recipients: recipients,
		hub:        hub,
	}
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	location := models.ReportLocation{Address: req.Address}
	if req.Latitude != nil && req.Longitude != nil {
		location.Coordinates = &models.GeoPoint{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
		}
	}

	report, err := h.reports.Create(c.Request.Context(), services.CreateReportInput{
		Category:    models.ReportCategory(req.Category),
		Description: req.Description,
		Location:    location,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	h.hub.BroadcastReport("report_created", report)
	go h.notifyNewReport(*report)

	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	filter, ok := parseReportFilter(c)
	if !ok {
		return
	}

	reports, err := h.reports.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching reports",
		})
		return
	}

	matched := services.FilterReports(reports, filter)
	c.JSON(http.StatusOK, gin.H{
		"reports": matched,
		"count":   len(matched),
	})
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	report, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": reportErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	report, err := h.reports.UpdateStatus(c.Request.Context(), id, services.StatusUpdateInput{
		Status: models.ReportStatus(req.Status),
		Note:   req.Note,
		Author: c.GetString("user_email"),
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": reportErrorMessage(err)})
		return
	}

	h.hub.BroadcastReport("report_updated", report)

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) AssignReport(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var req AssignTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	var teamID *primitive.ObjectID
	if req.TeamID != "" {
		parsed, err := primitive.ObjectIDFromHex(req.TeamID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
			return
		}
		teamID = &parsed
	}

	report, err := h.reports.AssignTeam(c.Request.Context(), id, teamID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": reportErrorMessage(err)})
		return
	}

	h.hub.BroadcastReport("report_updated", report)

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) AddNote(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	report, err := h.reports.AddNote(c.Request.Context(), id, req.Content, c.GetString("user_email"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": reportErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	deleted, err := h.reports.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting report"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

func (h *ReportHandler) GetReportStats(c *gin.Context) {
	summary, err := h.summaries.Build(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error building stats"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) GetCategories(c *gin.Context) {
	categories := make([]gin.H, 0)
	for _, category := range models.Categories() {
		categories = append(categories, gin.H{
			"value": category,
			"label": category.Label(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// notifyNewReport fans the alert out to the configured recipients. It
// runs detached from the request so a slow channel never delays the
// submission response.
func (h *ReportHandler) notifyNewReport(report models.Report) {
	if len(h.recipients) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	h.dispatcher.Dispatch(ctx, models.NotificationJob{
		Kind:       models.JobKindNewReportAlert,
		Report:     &report,
		Recipients: h.recipients,
	})
}

// parseReportFilter reads the list-view query parameters. It writes the
// error response itself when a parameter is malformed.
func parseReportFilter(c *gin.Context) (services.ReportFilter, bool) {
	var filter services.ReportFilter

	if raw := c.Query("status"); raw != "" {
		status := models.ReportStatus(raw)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidStatus.Error()})
			return filter, false
		}
		filter.Status = &status
	}

	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
			return filter, false
		}
		filter.Since = &since
	}

	filter.Query = c.Query("q")
	return filter, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrMissingPhoto),
		errors.Is(err, services.ErrMissingLocation),
		errors.Is(err, services.ErrDescriptionTooLong),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNoRecipients):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func reportErrorMessage(err error) string {
	// A bare ErrNotFound means the report id itself; wrapped ones carry
	// their own context (e.g. the team on an assignment).
	if err == store.ErrNotFound {
		return "Report not found"
	}
	return err.Error()
}
