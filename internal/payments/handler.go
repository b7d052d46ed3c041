package payments

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-optimizer/internal/shared/server/middleware"
	"resume-optimizer/internal/shared/server/respond"
)

type recordRequest struct {
	Provider    string `json:"provider" validate:"required,max=32"`
	OrderID     string `json:"orderId" validate:"required,max=128"`
	AmountCents int64  `json:"amountCents" validate:"required,gt=0"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Plan        string `json:"plan" validate:"omitempty,max=32"`
}

// Handler exposes payment endpoints.
type Handler struct {
	Recorder  Recorder
	validator *validator.Validate
}

func NewHandler(rec Recorder) *Handler {
	return &Handler{Recorder: rec, validator: validator.New()}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments", h.record)
	rg.GET("/payments/premium", h.premium)
}

func (h *Handler) record(c *gin.Context) {
	ident, ok := middleware.CurrentUser(c)
	if !ok || ident.IsGuest {
		respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to purchase", nil)
		return
	}
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid payment fields", nil)
		return
	}

	rec, err := h.Recorder.RecordPayment(c.Request.Context(), Payment{
		UserID:      ident.UserID,
		Provider:    req.Provider,
		OrderID:     req.OrderID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Plan:        req.Plan,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record payment", nil)
		return
	}
	if rec.UserID != ident.UserID {
		respond.Error(c, http.StatusConflict, "order_conflict", "order already recorded for another account", nil)
		return
	}
	respond.Created(c, rec)
}

func (h *Handler) premium(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	ok, err := h.Recorder.HasPlan(c.Request.Context(), userID, PlanPremium)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load plan", nil)
		return
	}
	respond.OK(c, gin.H{"premium": ok})
}
