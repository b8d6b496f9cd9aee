package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rtw/internal/domain/audit"
	"rtw/internal/domain/auth"
	"rtw/internal/transport/http/api"
	"rtw/internal/transport/http/middleware"
	"rtw/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(auditSvc *audit.Service) *Handler {
	return &Handler{Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermAuditRead)).Get("/audit", h.handleList)
}

// handleList returns the audit trail for one check, newest first. The
// checkId query parameter is required; there is no unfiltered listing.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	checkID := r.URL.Query().Get("checkId")
	if checkID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_check_id", "checkId query parameter is required", requestID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)

	events, err := h.Audit.ListForCheck(r.Context(), checkID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	api.Success(w, events, requestID)
}
