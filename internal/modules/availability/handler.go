package availability

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/inspectors/:id/timeslots", h.GetTimeslots)
	rg.POST("/inspectors/:id/timeslots", h.AddTimeslot)
	rg.DELETE("/inspectors/:id/timeslots", h.RemoveTimeslot)
	rg.GET("/inspectors/:id/timeoff", h.GetTimeoff)
	rg.POST("/inspectors/:id/timeoff", h.AddTimeoff)
	rg.DELETE("/inspectors/:id/timeoff", h.RemoveTimeoff)
	rg.GET("/availabilities", h.GetAvailabilities)
}

func (h *Handler) GetTimeslots(c *gin.Context) {
	accountID, inspectorID, ok := requestIDs(c)
	if !ok {
		return
	}

	timeslots, err := h.service.GetTimeslots(c.Request.Context(), accountID, inspectorID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"timeslots": timeslots})
}

func (h *Handler) AddTimeslot(c *gin.Context) {
	accountID, inspectorID, ok := requestIDs(c)
	if !ok {
		return
	}

	var req TimeslotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.AddTimeslot(c.Request.Context(), accountID, inspectorID, req.Day, *req.Time); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"added": true})
}

func (h *Handler) RemoveTimeslot(c *gin.Context) {
	accountID, inspectorID, ok := requestIDs(c)
	if !ok {
		return
	}

	day := c.Query("day")
	minute, err := strconv.Atoi(c.Query("time"))
	if day == "" || err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "day and time query parameters are required")
		return
	}

	if err := h.service.RemoveTimeslot(c.Request.Context(), accountID, inspectorID, day, minute); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

func (h *Handler) GetTimeoff(c *gin.Context) {
	accountID, inspectorID, ok := requestIDs(c)
	if !ok {
		return
	}

	entries, err := h.service.GetTimeoff(c.Request.Context(), accountID, inspectorID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"timeoff": entries})
}

func (h *Handler) AddTimeoff(c *gin.Context) {
	accountID, inspectorID, ok := requestIDs(c)
	if !ok {
		return
	}

	var req TimeoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.AddTimeoff(c.Request.Context(), accountID, inspectorID, req.Date, *req.Time); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"added": true})
}

func (h *Handler) RemoveTimeoff(c *gin.Context) {
	accountID, inspectorID, ok := requestIDs(c)
	if !ok {
		return
	}

	date := c.Query("date")
	minute, err := strconv.Atoi(c.Query("time"))
	if date == "" || err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date and time query parameters are required")
		return
	}

	if err := h.service.RemoveTimeoff(c.Request.Context(), accountID, inspectorID, date, minute); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

func (h *Handler) GetAvailabilities(c *gin.Context) {
	accountID := c.GetInt64("account_id")
	if accountID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	from := c.Query("from")
	until := c.Query("until")
	if from == "" || until == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from and until query parameters are required")
		return
	}

	availabilities, err := h.service.GetAvailabilities(c.Request.Context(), accountID, from, until)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"availabilities": availabilities})
}

// requestIDs resolves the session's account and the inspector path id.
// Inspector-scoped endpoints are account-bound: the service rejects ids
// outside the authenticated account's roster.
func requestIDs(c *gin.Context) (accountID, inspectorID int64, ok bool) {
	accountID = c.GetInt64("account_id")
	if accountID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return 0, 0, false
	}
	inspectorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid inspector id")
		return 0, 0, false
	}
	return accountID, inspectorID, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidParameter):
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
	case errors.Is(err, ErrDuplicateEntry), errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusConflict, "INVALID_OPERATION", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMETER", "An inspector by that id does not exist")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
