package alertshandler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rtw/internal/domain/auth"
	"rtw/internal/domain/notifications"
	"rtw/internal/transport/http/api"
	"rtw/internal/transport/http/middleware"
	"rtw/internal/transport/http/shared"
)

type Handler struct {
	Alerts    *notifications.Service
	Generator *notifications.Generator
}

func NewHandler(alerts *notifications.Service, generator *notifications.Generator) *Handler {
	return &Handler{Alerts: alerts, Generator: generator}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAlertsRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAlertsManage)).Post("/generate", h.handleGenerate)
		r.With(middleware.RequirePermission(auth.PermAlertsManage)).Post("/{alertID}/dismiss", h.handleDismiss)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	undismissedOnly := true
	if raw := r.URL.Query().Get("all"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil && v {
			undismissedOnly = false
		}
	}

	alerts, err := h.Alerts.List(r.Context(), undismissedOnly, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "alert_list_failed", "failed to list alerts", requestID)
		return
	}
	if alerts == nil {
		alerts = []notifications.Notification{}
	}
	api.Success(w, alerts, requestID)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	created, err := h.Generator.Run(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "alert_generate_failed", "failed to generate alerts", requestID)
		return
	}
	api.Success(w, map[string]int{"created": created}, requestID)
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	alertID := chi.URLParam(r, "alertID")
	if err := h.Alerts.Dismiss(r.Context(), alertID, user.Email); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			api.Fail(w, http.StatusNotFound, "alert_not_found", "alert not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "alert_dismiss_failed", "failed to dismiss alert", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "dismissed"}, requestID)
}
