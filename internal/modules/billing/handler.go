package billing

import (
	"errors"
	"net/http"
	"strconv"

	"inspectdesk/internal/modules/pricing"
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

// RegisterRoutes mounts the authenticated billing endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/inspections/:id/invoice", h.GenerateSendInvoice)
	rg.GET("/inspections/:id/payment", h.GetPayment)
	rg.POST("/inspections/:id/payments", h.RecordPayment)
}

// RegisterPublicRoutes mounts the token-gated document endpoint used by
// invoice recipients.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents/:id", h.AccessDocument)
}

// PaymentRequest records one received payment.
type PaymentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method" binding:"required"`
}

func (h *Handler) GenerateSendInvoice(c *gin.Context) {
	accountID, inspectionID, ok := requestIDs(c)
	if !ok {
		return
	}

	result, err := h.service.GenerateSendInvoice(c.Request.Context(), accountID, inspectionID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) GetPayment(c *gin.Context) {
	accountID, inspectionID, ok := requestIDs(c)
	if !ok {
		return
	}

	payment, err := h.service.GetPayment(c.Request.Context(), accountID, inspectionID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, payment)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	accountID, inspectionID, ok := requestIDs(c)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	payment, err := h.service.RecordPayment(c.Request.Context(), accountID, inspectionID, req.Amount, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, payment)
}

func (h *Handler) AccessDocument(c *gin.Context) {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid document id")
		return
	}

	view, err := h.service.AccessDocument(c.Request.Context(), documentID, c.Query("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
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
	case errors.Is(err, ErrInvalidParameter), errors.Is(err, pricing.ErrInvalidParameter):
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
	case errors.Is(err, ErrInvalidOperation):
		response.Error(c, http.StatusConflict, "INVALID_OPERATION", err.Error())
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMETER", "An inspection by that id does not exist")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
