// internal/handlers/team.go
package handlers

import (
	"net/http"

	"greenwatch/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TeamHandler struct {
	teams *services.TeamService
}

type CreateTeamRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Specialty string `json:"specialty" binding:"max=200"`
}

type UpdateTeamRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Specialty string `json:"specialty" binding:"max=200"`
	IsActive  *bool  `json:"is_active" binding:"required"`
}

func NewTeamHandler(teams *services.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	team, err := h.teams.Create(c.Request.Context(), req.Name, req.Specialty)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating team"})
		return
	}

	c.JSON(http.StatusCreated, team)
}

func (h *TeamHandler) GetTeams(c *gin.Context) {
	teams, err := h.teams.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching teams"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": teams,
		"count": len(teams),
	})
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	team, err := h.teams.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "Team not found"})
		return
	}

	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	team, err := h.teams.Update(c.Request.Context(), id, req.Name, req.Specialty, *req.IsActive)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "Team not found"})
		return
	}

	c.JSON(http.StatusOK, team)
}

// DeleteTeam removes a team. Reports assigned to it keep existing with
// the assignment cleared.
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	deleted, err := h.teams.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting team"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team deleted"})
}
