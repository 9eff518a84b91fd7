package handler

import (
	"encoding/json"
	"net/http"

	"maitred/internal/menu/service"
	"maitred/pkg/config"
	httputil "maitred/pkg/http"
	"maitred/pkg/middleware"
	"maitred/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type MenuHandler struct {
	service service.MenuService
	cfg     *config.Config
}

func NewMenuHandler(service service.MenuService, cfg *config.Config) *MenuHandler {
	return &MenuHandler{
		service: service,
		cfg:     cfg,
	}
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var item model.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.Create(r.Context(), &item); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, item)
}

func (h *MenuHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	item, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, item)
}

func (h *MenuHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	items, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, items, total, limit, offset)
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.MenuItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	item, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, item)
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

// RegisterRoutes leaves the menu readable by anyone; changing the catalog
// requires a staff token.
func (h *MenuHandler) RegisterRoutes(router *httprouter.Router) {
	staff := middleware.Authenticate(h.cfg.JWTSecret, h.cfg.Log)

	router.GET("/api/v1/menu", h.GetAll)
	router.GET("/api/v1/menu/id/:id", h.GetByID)
	router.POST("/api/v1/menu", staff(h.Create))
	router.PATCH("/api/v1/menu/id/:id", staff(h.Update))
	router.DELETE("/api/v1/menu/id/:id", staff(h.Delete))
}
