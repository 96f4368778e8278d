package handler

import (
	"grievance/backend/internal/grievance"
	"grievance/backend/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// submitRequest.Citizen is only honoured for admins submitting on a
// citizen's behalf.
type submitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Citizen     string `json:"citizen"`
}

type statusRequest struct {
	Status models.Status `json:"status"`
}

type classificationRequest struct {
	Department    string          `json:"department"`
	Priority      models.Priority `json:"priority"`
	PriorityScore *float64        `json:"priorityScore"`
}

// SubmitGrievance creates a grievance for the caller.
func (h *Handler) SubmitGrievance(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sess, _ := currentSession(c)
	citizen := sess.UserID
	if sess.Role == models.RoleAdmin {
		citizen = req.Citizen
	}

	g, err := h.Grievances.Submit(c.Request.Context(), grievance.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		CitizenRef:  citizen,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *Handler) GetGrievance(c *gin.Context) {
	g, err := h.Grievances.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) ListGrievances(c *gin.Context) {
	list, err := h.Grievances.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

func (h *Handler) ListMyGrievances(c *gin.Context) {
	sess, _ := currentSession(c)
	list, err := h.Grievances.ListByCitizen(c.Request.Context(), sess.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

// ListDepartmentGrievances returns a department queue, highest score first.
func (h *Handler) ListDepartmentGrievances(c *gin.Context) {
	list, err := h.Grievances.ListByDepartment(c.Request.Context(), c.Param("dept"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	g, err := h.Grievances.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) OverrideClassification(c *gin.Context) {
	var req classificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	g, err := h.Grievances.OverrideClassification(c.Request.Context(), c.Param("id"), grievance.ClassificationInput{
		Department:    req.Department,
		Priority:      req.Priority,
		PriorityScore: req.PriorityScore,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) Reclassify(c *gin.Context) {
	g, err := h.Grievances.Reclassify(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetStats aggregates grievances, optionally filtered by repeated
// ?department= parameters.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.Grievances.Stats(c.Request.Context(), c.QueryArray("department"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil(list []models.Grievance) []models.Grievance {
	if list == nil {
		return []models.Grievance{}
	}
	return list
}
