package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"maitred/internal/reservations/service"
	"maitred/pkg/config"
	apperrors "maitred/pkg/errors"
	httputil "maitred/pkg/http"
	"maitred/pkg/middleware"
	"maitred/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	cache   *middleware.ResponseCache
	cfg     *config.Config
}

func NewReservationHandler(service service.ReservationService, cache *middleware.ResponseCache, cfg *config.Config) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		cache:   cache,
		cfg:     cfg,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reservation model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	// account_id comes from the token, never from the body.
	reservation.AccountID = ""
	if principal, ok := middleware.PrincipalFrom(r.Context()); ok {
		reservation.AccountID = principal.ID
	}

	if err := h.service.Create(r.Context(), &reservation); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, reservation)
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservations, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, reservations, total, limit, offset)
}

// Lookup lets a guest list their own reservations by email, without an
// account.
func (h *ReservationHandler) Lookup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email := r.URL.Query().Get("email")
	if email == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'email' query parameter is required"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservations, total, err := h.service.GetByEmail(r.Context(), email, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, reservations, total, limit, offset)
}

func (h *ReservationHandler) GetByAccount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservations, total, err := h.service.GetByAccount(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, reservations, total, limit, offset)
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	reservation, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.Cancel(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) UpdatePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.PaymentUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	reservation, err := h.service.UpdatePayment(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	dateStr := query.Get("date")
	timeStr := query.Get("time")

	if dateStr == "" || timeStr == "" {
		httputil.WriteError(w, apperrors.InvalidInput("Both 'date' and 'time' query parameters are required"))
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid date format, must be YYYY-MM-DD"))
		return
	}

	availability, err := h.service.Availability(r.Context(), date, timeStr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, availability)
}

// RegisterRoutes mounts guest-facing routes publicly; listing every
// reservation and forcing status transitions require a staff token.
func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	staff := middleware.Authenticate(h.cfg.JWTSecret, h.cfg.Log)
	optional := middleware.OptionalAuthenticate(h.cfg.JWTSecret, h.cfg.Log)

	router.POST("/api/v1/reservations", optional(h.Create))
	router.GET("/api/v1/reservations", staff(h.GetAll))
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.GET("/api/v1/reservations/lookup", h.Lookup)
	router.GET("/api/v1/reservations/account/:id", staff(h.GetByAccount))
	router.PATCH("/api/v1/reservations/id/:id/status", staff(h.UpdateStatus))
	router.POST("/api/v1/reservations/id/:id/cancel", h.Cancel)
	router.PATCH("/api/v1/reservations/id/:id/payment", h.UpdatePayment)
	router.GET("/api/v1/availability", h.cache.Wrap(h.Availability))
}
