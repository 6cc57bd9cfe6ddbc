package pricing

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

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

// RegisterRoutes exposes the public booking-form endpoints: the service
// catalog and the pricing quote.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/scheduling/services", h.GetServices)
	rg.GET("/scheduling/pricing", h.GetPricing)
}

func (h *Handler) GetServices(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Query("account"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMETER", "Invalid account id")
		return
	}

	services, err := h.service.GetServices(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

// GetPricing quotes an invoice for the query parameters: services is a
// |-separated list of short names; either age or year_built must be set.
func (h *Handler) GetPricing(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Query("account"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMETER", "Invalid account id")
		return
	}

	var services []string
	if raw := c.Query("services"); raw != "" {
		services = strings.Split(raw, "|")
	}

	sqft, _ := strconv.Atoi(c.Query("sqft"))
	age, _ := strconv.Atoi(c.Query("age"))
	yearBuilt, _ := strconv.Atoi(c.Query("year_built"))
	foundation := c.Query("foundation")

	invoice, err := h.service.CalculatePricing(c.Request.Context(), accountID, services, sqft, yearBuilt, age, foundation)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, invoice)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidParameter):
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMETER", "An account by that id does not exist")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
