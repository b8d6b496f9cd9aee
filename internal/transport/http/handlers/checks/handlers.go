package checkshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"rtw/internal/domain/audit"
	"rtw/internal/domain/auth"
	"rtw/internal/domain/reports"
	"rtw/internal/domain/retention"
	"rtw/internal/domain/rtw"
	"rtw/internal/domain/scans"
	"rtw/internal/transport/http/api"
	"rtw/internal/transport/http/middleware"
	"rtw/internal/transport/http/shared"
)

type Handler struct {
	Checks    *rtw.Service
	Scans     *scans.Store
	Audit     *audit.Service
	Reports   *reports.Service
	Retention *retention.Service
}

func NewHandler(checks *rtw.Service, scanStore *scans.Store, auditSvc *audit.Service, reportsSvc *reports.Service, retentionSvc *retention.Service) *Handler {
	return &Handler{Checks: checks, Scans: scanStore, Audit: auditSvc, Reports: reportsSvc, Retention: retentionSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/checks", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermChecksRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermChecksWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermChecksRead)).Get("/{checkID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermChecksWrite)).Put("/{checkID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermChecksDelete)).Delete("/{checkID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermChecksWrite)).Post("/{checkID}/end-employment", h.handleEndEmployment)
		r.With(middleware.RequirePermission(auth.PermChecksWrite)).Post("/{checkID}/scan", h.handleUploadScan)
		r.With(middleware.RequirePermission(auth.PermChecksRead)).Get("/{checkID}/scan", h.handleDownloadScan)
		r.With(middleware.RequirePermission(auth.PermReportsExport)).Get("/{checkID}/pdf", h.handlePDF)
	})
}

type checkPayload struct {
	FullName             string            `json:"fullName"`
	DateOfBirth          string            `json:"dateOfBirth"`
	CheckDate            string            `json:"checkDate"`
	CheckType            string            `json:"checkType"`
	CheckMethod          string            `json:"checkMethod"`
	ShareCode            string            `json:"shareCode"`
	IDSPProvider         string            `json:"idspProvider"`
	DocumentTokens       []string          `json:"documentTokens"`
	VerificationAnswers  map[string]string `json:"verificationAnswers"`
	DeclarationConfirmed bool              `json:"declarationConfirmed"`
	DeclaredBy           string            `json:"declaredBy"`
	Notes                string            `json:"notes"`
	ExpiryDate           string            `json:"expiryDate"`
	FollowUpDate         string            `json:"followUpDate"`
	EmploymentStartDate  string            `json:"employmentStartDate"`
	EmploymentEndDate    string            `json:"employmentEndDate"`
	OnboardingRef        string            `json:"onboardingRef"`
}

// apply validates the payload and copies it onto a check. The deletion
// due date is not part of the payload; the service derives it from the
// employment end date.
func (p checkPayload) apply(check *rtw.Check, v *shared.Validator) {
	v.Required("fullName", p.FullName, "is required")
	v.Enum("checkType", p.CheckType, []string{rtw.CheckTypeInitial, rtw.CheckTypeFollowUp}, "must be initial or follow_up")
	v.Enum("checkMethod", p.CheckMethod, []string{rtw.CheckMethodManual, rtw.CheckMethodIDSP, rtw.CheckMethodOnline}, "must be manual, idsp or online")
	if p.CheckMethod == rtw.CheckMethodOnline {
		v.Required("shareCode", p.ShareCode, "is required for online checks")
	}
	if p.CheckMethod == rtw.CheckMethodIDSP {
		v.Required("idspProvider", p.IDSPProvider, "is required for idsp checks")
	}
	for key, answer := range p.VerificationAnswers {
		v.Enum("verificationAnswers."+key, answer, []string{"Yes", "No", "N/A"}, "must be Yes, No or N/A")
	}

	dob, _ := v.Date("dateOfBirth", p.DateOfBirth)
	checkDate, _ := v.Date("checkDate", p.CheckDate)
	expiry, _ := v.Date("expiryDate", p.ExpiryDate)
	followUp, _ := v.Date("followUpDate", p.FollowUpDate)
	start, _ := v.Date("employmentStartDate", p.EmploymentStartDate)
	end, _ := v.Date("employmentEndDate", p.EmploymentEndDate)
	if start != nil && end != nil && end.Before(*start) {
		v.Add("employmentEndDate", "must be on or after employmentStartDate")
	}
	if v.HasIssues() {
		return
	}

	check.FullName = strings.TrimSpace(p.FullName)
	check.DateOfBirth = dob
	check.CheckDate = checkDate
	check.CheckType = p.CheckType
	check.CheckMethod = p.CheckMethod
	check.ShareCode = strings.TrimSpace(p.ShareCode)
	check.IDSPProvider = strings.TrimSpace(p.IDSPProvider)
	check.DocumentTokens = p.DocumentTokens
	check.VerificationAnswers = p.VerificationAnswers
	check.DeclarationConfirmed = p.DeclarationConfirmed
	check.DeclaredBy = strings.TrimSpace(p.DeclaredBy)
	check.Notes = p.Notes
	check.ExpiryDate = expiry
	check.FollowUpDate = followUp
	check.EmploymentStartDate = start
	check.EmploymentEndDate = end
	check.OnboardingRef = strings.TrimSpace(p.OnboardingRef)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload checkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	var check rtw.Check
	v := shared.NewValidator()
	payload.apply(&check, v)
	if v.Reject(w, requestID) {
		return
	}
	check.CreatedBy = user.UserID

	if err := h.Checks.Create(r.Context(), &check); err != nil {
		api.Fail(w, http.StatusInternalServerError, "check_create_failed", "failed to create check", requestID)
		return
	}
	_ = h.Audit.Record(r.Context(), check.ID, user.UserID, "check.created", requestID, nil, check)
	api.Created(w, check, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	checks, err := h.Checks.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "check_list_failed", "failed to list checks", requestID)
		return
	}
	api.Success(w, checks, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	check, ok := h.loadCheck(w, r, requestID)
	if !ok {
		return
	}
	api.Success(w, check, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	before, ok := h.loadCheck(w, r, requestID)
	if !ok {
		return
	}

	var payload checkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	updated := before
	v := shared.NewValidator()
	payload.apply(&updated, v)
	if v.Reject(w, requestID) {
		return
	}

	if err := h.Checks.Update(r.Context(), &updated); err != nil {
		if errors.Is(err, rtw.ErrCheckNotFound) {
			api.Fail(w, http.StatusNotFound, "check_not_found", "check not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "check_update_failed", "failed to update check", requestID)
		return
	}
	_ = h.Audit.Record(r.Context(), updated.ID, user.UserID, "check.updated", requestID, before, updated)
	api.Success(w, updated, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	check, ok := h.loadCheck(w, r, requestID)
	if !ok {
		return
	}

	// Audit the deletion first so the scrub in the pipeline redacts
	// this snapshot along with the rest of the history.
	_ = h.Audit.Record(r.Context(), check.ID, user.UserID, "check.deleted", requestID, check, nil)

	actor := retention.Actor{ID: user.UserID, Email: user.Email}
	if err := h.Retention.DeleteCheck(r.Context(), check, actor); err != nil {
		api.Fail(w, http.StatusInternalServerError, "check_delete_failed", fmt.Sprintf("failed to delete check: %v", err), requestID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestID)
}

type endEmploymentRequest struct {
	EmploymentEndDate string `json:"employmentEndDate"`
}

// handleEndEmployment sets or clears the employment end date. The
// deletion due date is derived in the same write so the pair never
// drifts apart. An empty date clears both.
func (h *Handler) handleEndEmployment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	before, ok := h.loadCheck(w, r, requestID)
	if !ok {
		return
	}

	var payload endEmploymentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	end, _ := v.Date("employmentEndDate", payload.EmploymentEndDate)
	if v.Reject(w, requestID) {
		return
	}

	if err := h.Checks.EndEmployment(r.Context(), before.ID, end); err != nil {
		if errors.Is(err, rtw.ErrCheckNotFound) {
			api.Fail(w, http.StatusNotFound, "check_not_found", "check not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "check_update_failed", "failed to record employment end", requestID)
		return
	}

	updated, err := h.Checks.Get(r.Context(), before.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "check_load_failed", "failed to load check", requestID)
		return
	}
	_ = h.Audit.Record(r.Context(), updated.ID, user.UserID, "check.employment_ended", requestID, before, updated)
	api.Success(w, updated, requestID)
}

func (h *Handler) handleUploadScan(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	check, ok := h.loadCheck(w, r, requestID)
	if !ok {
		return
	}

	file, header, err := r.FormFile("scan")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "multipart field 'scan' is required", requestID)
		return
	}
	defer file.Close()

	path, err := h.Scans.Save(r.Context(), check.ID, header.Filename, file)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "scan_save_failed", "failed to store scan", requestID)
		return
	}

	before := check
	check.ScanPath = path
	check.ScanFilename = header.Filename
	if err := h.Checks.Update(r.Context(), &check); err != nil {
		api.Fail(w, http.StatusInternalServerError, "check_update_failed", "failed to attach scan", requestID)
		return
	}
	_ = h.Audit.Record(r.Context(), check.ID, user.UserID, "check.scan_attached", requestID, before, check)
	api.Success(w, check, requestID)
}

func (h *Handler) handleDownloadScan(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	check, ok := h.loadCheck(w, r, requestID)
	if !ok {
		return
	}
	if check.ScanPath == "" {
		api.Fail(w, http.StatusNotFound, "scan_not_found", "no scan attached to this check", requestID)
		return
	}

	reader, err := h.Scans.Open(r.Context(), check.ScanPath)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "scan_not_found", "scan file missing", requestID)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", check.ScanFilename))
	_, _ = io.Copy(w, reader)
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	check, ok := h.loadCheck(w, r, requestID)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "rtw-check-"+check.ID+".pdf"))
	if err := h.Reports.WriteCheckPDF(w, check, time.Now()); err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render PDF", requestID)
	}
}

func (h *Handler) loadCheck(w http.ResponseWriter, r *http.Request, requestID string) (rtw.Check, bool) {
	checkID := chi.URLParam(r, "checkID")
	check, err := h.Checks.Get(r.Context(), checkID)
	if err != nil {
		if errors.Is(err, rtw.ErrCheckNotFound) {
			api.Fail(w, http.StatusNotFound, "check_not_found", "check not found", requestID)
		} else {
			api.Fail(w, http.StatusInternalServerError, "check_load_failed", "failed to load check", requestID)
		}
		return rtw.Check{}, false
	}
	return check, true
}
