// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/repository"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/service"
)

// NoticeFeed exposes the most recent user-facing notices.
type NoticeFeed interface {
	Recent(n int) []model.Notice
}

// Handler holds all HTTP handlers for the catalog API.
type Handler struct {
	session  *service.SessionService
	catalog  *service.CatalogService
	notices  NoticeFeed
	validate *validator.Validate
	now      func() time.Time
}

// New constructs a Handler.
func New(session *service.SessionService, catalog *service.CatalogService, notices NoticeFeed) *Handler {
	return &Handler{
		session:  session,
		catalog:  catalog,
		notices:  notices,
		validate: validator.New(),
		now:      time.Now,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps a service or repository error to a status code.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, repository.ErrEventFull),
		errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, service.ErrUnexpected.Error())
	}
}

// currentUser writes 401 and returns nil when nobody is signed in.
func (h *Handler) currentUser(w http.ResponseWriter) *model.User {
	user := h.session.CurrentUser()
	if user == nil {
		writeError(w, http.StatusUnauthorized, "sign in required")
	}
	return user
}

// ─── Session ──────────────────────────────────────────────────────────────────

// Session handles GET /session
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.State())
}

// Login handles POST /session/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.session.Login(r.Context(), req.Email, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.session.State())
}

// Signup handles POST /session/register
// Creates an account and signs it in.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.session.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.session.State())
}

// Logout handles POST /session/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Events ───────────────────────────────────────────────────────────────────

// ListEvents handles GET /events
// Query parameters search, location, dateFrom and dateTo narrow the list.
// Filtering is per request and leaves the catalog's own filtered list alone.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events := service.FilterEvents(h.catalog.Events(), model.FilterOptions{
		Search:   q.Get("search"),
		Location: q.Get("location"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
	})
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.catalog.Event(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Register handles POST /events/{id}/register
// Books a place for the signed-in user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w)
	if user == nil {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.catalog.RegisterForEvent(r.Context(), id, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	event, err := h.catalog.Event(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// Unregister handles POST /events/{id}/unregister
func (h *Handler) Unregister(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w)
	if user == nil {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.catalog.UnregisterFromEvent(r.Context(), id, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	event, err := h.catalog.Event(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// IsRegistered handles GET /events/{id}/registered
func (h *Handler) IsRegistered(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w)
	if user == nil {
		return
	}

	ok, err := h.catalog.IsUserRegistered(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"registered": ok})
}

// ─── Current user ─────────────────────────────────────────────────────────────

// MyRegistrations handles GET /me/registrations
func (h *Handler) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w)
	if user == nil {
		return
	}

	regs, err := h.catalog.UserRegistrations(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

// Dashboard handles GET /me/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w)
	if user == nil {
		return
	}

	d, err := h.catalog.Dashboard(r.Context(), user.ID, h.now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Notices handles GET /notices
// The optional limit parameter caps the number returned, newest first.
func (h *Handler) Notices(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.notices.Recent(limit))
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
