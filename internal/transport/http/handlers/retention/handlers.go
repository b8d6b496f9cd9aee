package retentionhandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rtw/internal/domain/auth"
	"rtw/internal/domain/retention"
	"rtw/internal/transport/http/api"
	"rtw/internal/transport/http/middleware"
	"rtw/internal/transport/http/shared"
)

type Handler struct {
	Sweep  *retention.Service
	Ledger *retention.Store
}

func NewHandler(sweep *retention.Service, ledger *retention.Store) *Handler {
	return &Handler{Sweep: sweep, Ledger: ledger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/retention", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermRetentionSweep)).Post("/sweep", h.handleSweep)
		r.With(middleware.RequirePermission(auth.PermRetentionLedger)).Get("/deleted", h.handleListDeleted)
	})
}

// handleSweep runs the retention sweep attributed to the calling user.
// The sweep completes with per-record errors in the report; only an
// unresolvable actor or a failed candidate query abort it.
func (h *Handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	resolver := retention.ActorFunc(func(ctx context.Context) (retention.Actor, error) {
		user, ok := middleware.GetUser(ctx)
		if !ok {
			return retention.Actor{}, errors.New("no authenticated user on request")
		}
		return retention.Actor{ID: user.UserID, Email: user.Email}, nil
	})

	report, err := h.Sweep.Run(r.Context(), retention.TriggerManual, resolver)
	if err != nil {
		if errors.Is(err, retention.ErrActorUnresolved) {
			api.Fail(w, http.StatusUnauthorized, "actor_unresolved", "sweep requires an authenticated user", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "sweep_failed", "retention sweep failed", requestID)
		return
	}
	api.Success(w, report, requestID)
}

func (h *Handler) handleListDeleted(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	entries, err := h.Ledger.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "ledger_list_failed", "failed to list deleted records", requestID)
		return
	}
	if entries == nil {
		entries = []retention.DeletedEntry{}
	}
	api.Success(w, entries, requestID)
}
