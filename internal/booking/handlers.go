package booking

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/studiolensa/backend-shoot/internal/common"
	"github.com/studiolensa/backend-shoot/internal/discount"
	"github.com/studiolensa/backend-shoot/internal/obs"
	"github.com/studiolensa/backend-shoot/internal/quote"
	"github.com/studiolensa/backend-shoot/internal/selection"
)

// Handler exposes booking draft and quote endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type createRequest struct {
	Mode      string  `json:"mode" validate:"required,oneof=general wedding"`
	EventType string  `json:"event_type" validate:"omitempty,max=64"`
	Hours     float64 `json:"hours" validate:"gte=0,lte=168"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=10000"`
}

type toggleRequest struct {
	DefaultQuantity int `json:"default_quantity" validate:"min=0,max=10000"`
}

type hoursRequest struct {
	Hours float64 `json:"hours" validate:"gte=0,lte=168"`
}

type modeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=general wedding"`
}

type quoteRequest struct {
	Mode          string                   `json:"mode" validate:"required,oneof=general wedding"`
	EventType     string                   `json:"event_type" validate:"omitempty,max=64"`
	Hours         float64                  `json:"hours" validate:"gte=0,lte=168"`
	MarginPercent *float64                 `json:"margin_percent" validate:"omitempty,gte=0,lt=100"`
	Items         []selection.SelectedItem `json:"items" validate:"max=200,dive"`
}

// Create handles POST /api/v1/bookings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}
	mode, _ := selection.ParseMode(req.Mode)
	booking, err := h.Svc.Create(r.Context(), mode, req.EventType, decimal.NewFromFloat(req.Hours))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": booking})
}

// Get handles GET /api/v1/bookings/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	booking, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": booking})
}

// ToggleItem handles POST /api/v1/bookings/{id}/items/{itemID}/toggle.
func (h *Handler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	itemID, ok := h.itemID(w, r)
	if !ok {
		return
	}
	req := toggleRequest{DefaultQuantity: 1}
	if r.ContentLength != 0 && !h.decode(w, r, &req) {
		return
	}
	booking, err := h.Svc.ToggleItem(r.Context(), id, itemID, req.DefaultQuantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": booking})
}

// SetQuantity handles PUT /api/v1/bookings/{id}/items/{itemID}.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	itemID, ok := h.itemID(w, r)
	if !ok {
		return
	}
	var req quantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	booking, err := h.Svc.SetQuantity(r.Context(), id, itemID, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": booking})
}

// SetHours handles PUT /api/v1/bookings/{id}/hours.
func (h *Handler) SetHours(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	var req hoursRequest
	if !h.decode(w, r, &req) {
		return
	}
	booking, err := h.Svc.SetHours(r.Context(), id, decimal.NewFromFloat(req.Hours))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": booking})
}

// SetMode handles PUT /api/v1/bookings/{id}/mode.
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	var req modeRequest
	if !h.decode(w, r, &req) {
		return
	}
	mode, _ := selection.ParseMode(req.Mode)
	booking, err := h.Svc.SetMode(r.Context(), id, mode)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": booking})
}

// ClearItems handles DELETE /api/v1/bookings/{id}/items.
func (h *Handler) ClearItems(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	booking, err := h.Svc.ClearItems(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": booking})
}

// Quote handles GET /api/v1/bookings/{id}/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	q, err := h.Svc.Quote(r.Context(), id)
	if err != nil {
		obs.RecordQuoteCompute("", "error")
		h.writeError(w, err)
		return
	}
	obs.RecordQuoteCompute(string(q.Mode), "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"quote":   q,
		"display": quote.Present(q),
	}})
}

// Confirm handles POST /api/v1/bookings/{id}/confirm.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	booking, q, err := h.Svc.Confirm(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	obs.RecordBookingConfirmed(string(booking.Mode))
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"booking": booking,
		"quote":   q,
		"display": quote.Present(q),
	}})
}

// ComputeQuote handles POST /api/v1/quote: a stateless calculation over
// an ad-hoc selection, for the booking wizard's running summary.
func (h *Handler) ComputeQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	mode, _ := selection.ParseMode(req.Mode)

	sel := selection.Selection{}
	for _, item := range req.Items {
		if item.Quantity > 0 {
			sel[item.ItemID] = item
		}
	}
	margin := h.Svc.Margin
	if req.MarginPercent != nil {
		margin = decimal.NewFromFloat(*req.MarginPercent)
	}
	q, err := h.Svc.ComputeQuote(r.Context(), sel, decimal.NewFromFloat(req.Hours), mode, req.EventType, margin)
	if err != nil {
		obs.RecordQuoteCompute(string(mode), "error")
		h.writeError(w, err)
		return
	}
	obs.RecordQuoteCompute(string(mode), "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"quote":   q,
		"display": quote.Present(q),
	}})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		common.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed JSON body", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(dst); err != nil {
			common.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), nil)
			return false
		}
	}
	return true
}

func (h *Handler) bookingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", "booking id must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || id <= 0 {
		common.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", "item id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "booking not found", nil)
	case errors.Is(err, ErrNotEditable):
		common.JSONError(w, http.StatusConflict, "NOT_EDITABLE", "booking is no longer editable", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), nil)
	case errors.Is(err, quote.ErrInvalidConfiguration), errors.Is(err, discount.ErrInvalidTiers):
		// Configuration errors must halt display of any stale total.
		common.JSONError(w, http.StatusInternalServerError, "INVALID_CONFIGURATION", "pricing configuration is invalid", nil)
	default:
		common.WriteError(w, err)
	}
}
