package handler

import (
	"encoding/json"
	"net/http"

	"maitred/internal/accounts/service"
	"maitred/pkg/config"
	apperrors "maitred/pkg/errors"
	httputil "maitred/pkg/http"
	"maitred/pkg/middleware"
	"maitred/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type LoginResponse struct {
	Token  string        `json:"token"`
	Person *model.Person `json:"person"`
}

type PersonHandler struct {
	service service.PersonService
	cfg     *config.Config
}

func NewPersonHandler(service service.PersonService, cfg *config.Config) *PersonHandler {
	return &PersonHandler{
		service: service,
		cfg:     cfg,
	}
}

func (h *PersonHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var person model.Person
	if err := json.NewDecoder(r.Body).Decode(&person); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	token, err := h.service.Signup(r.Context(), &person)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, LoginResponse{Token: token, Person: &person})
}

func (h *PersonHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	token, person, err := h.service.Login(r.Context(), &creds)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, LoginResponse{Token: token, Person: person})
}

// Me returns the profile of the authenticated staff member.
func (h *PersonHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	person, err := h.service.GetByID(r.Context(), principal.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, person)
}

func (h *PersonHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	person, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, person)
}

func (h *PersonHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	persons, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, persons, total, limit, offset)
}

func (h *PersonHandler) GetByWork(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	persons, total, err := h.service.GetByWork(r.Context(), ps.ByName("work"), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, persons, total, limit, offset)
}

func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.PersonUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	person, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, person)
}

func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

// RegisterRoutes keeps signup and login public; everything else requires a
// staff token, and deleting accounts is restricted to managers.
func (h *PersonHandler) RegisterRoutes(router *httprouter.Router) {
	staff := middleware.Authenticate(h.cfg.JWTSecret, h.cfg.Log)
	managerOnly := middleware.RequireRole(model.WorkManager)

	router.POST("/api/v1/staff/signup", h.Signup)
	router.POST("/api/v1/staff/login", h.Login)
	router.GET("/api/v1/staff/me", staff(h.Me))
	router.GET("/api/v1/staff", staff(h.GetAll))
	router.GET("/api/v1/staff/id/:id", staff(h.GetByID))
	router.GET("/api/v1/staff/work/:work", staff(h.GetByWork))
	router.PATCH("/api/v1/staff/id/:id", staff(h.Update))
	router.DELETE("/api/v1/staff/id/:id", staff(managerOnly(h.Delete)))
}
