// internal/handlers/notification.go
package handlers

import (
	"net/http"
	"strconv"

	"greenwatch/internal/models"
	"greenwatch/internal/services"
	"greenwatch/internal/store"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	dispatcher *services.Dispatcher
	summaries  *services.SummaryService
	reports    *services.ReportService
	deliveries store.DeliveryStore
	recipients []string
}

func NewNotificationHandler(
	dispatcher *services.Dispatcher,
	summaries *services.SummaryService,
	reports *services.ReportService,
	deliveries store.DeliveryStore,
	recipients []string,
) *NotificationHandler {
	return &NotificationHandler{
		dispatcher: dispatcher,
		summaries:  summaries,
		reports:    reports,
		deliveries: deliveries,
		recipients: recipients,
	}
}

// SendDailySummary triggers the digest outside the schedule.
func (h *NotificationHandler) SendDailySummary(c *gin.Context) {
	summary, err := h.summaries.Build(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error building summary"})
		return
	}

	records, err := h.dispatcher.Dispatch(c.Request.Context(), models.NotificationJob{
		Kind:       models.JobKindDailySummary,
		Summary:    summary,
		Recipients: h.recipients,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"failed":  models.FailedRecipients(records),
	})
}

func (h *NotificationHandler) GetDeliveries(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	records, err := h.deliveries.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching deliveries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deliveries": records,
		"count":      len(records),
	})
}

func (h *NotificationHandler) GetJobDeliveries(c *gin.Context) {
	jobID := c.Param("job_id")

	records, err := h.deliveries.ListByJob(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching deliveries"})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":  jobID,
		"records": records,
		"failed":  models.FailedRecipients(records),
	})
}

// RetryJob re-dispatches a job to the recipients whose previous attempt
// failed. The new attempt runs as a fresh job; the original records stay
// untouched.
func (h *NotificationHandler) RetryJob(c *gin.Context) {
	jobID := c.Param("job_id")

	records, err := h.deliveries.ListByJob(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching deliveries"})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	failed := models.FailedRecipients(records)
	if len(failed) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "Nothing to retry, all recipients were reached",
		})
		return
	}

	job := models.NotificationJob{
		Kind:       records[0].Kind,
		Recipients: failed,
	}

	switch records[0].Kind {
	case models.JobKindNewReportAlert:
		if records[0].ReportID == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Original report reference is missing"})
			return
		}
		report, err := h.reports.Get(c.Request.Context(), *records[0].ReportID)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": "Original report no longer exists"})
			return
		}
		job.Report = report
	case models.JobKindDailySummary:
		summary, err := h.summaries.Build(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error building summary"})
			return
		}
		job.Summary = summary
	}

	retried, err := h.dispatcher.Dispatch(c.Request.Context(), job)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"retried": len(failed),
		"records": retried,
		"failed":  models.FailedRecipients(retried),
	})
}
