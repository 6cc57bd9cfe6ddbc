package scheduling

import (
	"errors"
	"net/http"
	"strconv"

	"inspectdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the booking endpoint used by the public
// scheduling widget. The account is identified by query parameter, not by
// an authenticated session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/scheduling/book", h.Book)
}

// RegisterRoutes mounts the authenticated inspection-editing endpoints and
// the inspector's own schedule.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/schedule", h.GetSchedule)
	rg.PATCH("/inspections/:id/property", h.UpdateProperty)
	rg.PATCH("/inspections/:id/appointment", h.UpdateAppointment)
	rg.PATCH("/inspections/:id/services", h.UpdateServices)
}

func (h *Handler) GetSchedule(c *gin.Context) {
	inspectorID := c.GetInt64("inspector_id")
	if inspectorID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	from := c.Query("from")
	until := c.Query("until")
	if from == "" || until == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from and until query parameters are required")
		return
	}

	inspections, err := h.service.GetSchedule(c.Request.Context(), inspectorID, from, until)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"inspections": inspections})
}

func (h *Handler) Book(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Query("account"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "A valid account query parameter is required")
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Schedule(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) UpdateProperty(c *gin.Context) {
	accountID, inspectionID, ok := requestIDs(c)
	if !ok {
		return
	}

	var req PropertyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.UpdatePropertyDetails(c.Request.Context(), accountID, inspectionID, req); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	accountID, inspectionID, ok := requestIDs(c)
	if !ok {
		return
	}

	var req AppointmentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.UpdateAppointment(c.Request.Context(), accountID, inspectionID, req); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) UpdateServices(c *gin.Context) {
	accountID, inspectionID, ok := requestIDs(c)
	if !ok {
		return
	}

	var req UpdateServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.UpdateServices(c.Request.Context(), accountID, inspectionID, req.Services); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func requestIDs(c *gin.Context) (accountID, inspectionID int64, ok bool) {
	accountID = c.GetInt64("account_id")
	if accountID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return 0, 0, false
	}
	inspectionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid inspection id")
		return 0, 0, false
	}
	return accountID, inspectionID, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidParameter):
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
	case errors.Is(err, ErrInvalidOperation):
		response.Error(c, http.StatusConflict, "INVALID_OPERATION", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMETER", "An inspection by that id does not exist")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
