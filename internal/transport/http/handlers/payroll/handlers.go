package payrollhandler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/audit"
	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/platform/metrics"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

const runEndpoint = "payroll.run"

type Handler struct {
	Service *payroll.Service
	Audit   *audit.Service
	Perms   middleware.PermissionStore
	Idem    *middleware.IdempotencyStore
	Metrics *metrics.Collector
}

func NewHandler(service *payroll.Service, auditSvc *audit.Service, perms middleware.PermissionStore, idem *middleware.IdempotencyStore, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Perms: perms, Idem: idem, Metrics: collector}
}

type runPayload struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

type rejectPayload struct {
	Reason string `json:"reason"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/run", h.handleRun)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs", h.handleListRuns)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs/{runID}", h.handleRunDetail)
		r.With(middleware.RequirePermission(auth.PermPayrollApprove, h.Perms)).Post("/runs/{runID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermPayrollApprove, h.Perms)).Post("/runs/{runID}/reject", h.handleReject)
	})
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "failed to read request body", middleware.GetRequestID(r.Context()))
		return
	}

	var payload runPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash(body)
	if idemKey != "" {
		stored, found, err := h.Idem.Check(r.Context(), user.UserID, runEndpoint, idemKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "idempotency_error", "idempotency check failed", middleware.GetRequestID(r.Context()))
			return
		}
		if found {
			api.Success(w, stored, middleware.GetRequestID(r.Context()))
			return
		}
	}

	run, err := h.Service.RunPayroll(r.Context(), payload.Month, payload.Year)
	if errors.Is(err, payroll.ErrInvalidPeriod) {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "month", Reason: "must be a two-digit month 01-12 with a four-digit year"},
		})
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "failed to run payroll", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordPayrollRun()
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.run", "payroll_run", run.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, run); err != nil {
		log.Printf("audit payroll.run failed: %v", err)
	}
	if idemKey != "" {
		raw, err := json.Marshal(run)
		if err == nil {
			err = h.Idem.Save(r.Context(), user.UserID, runEndpoint, idemKey, requestHash, raw)
		}
		if err != nil {
			log.Printf("idempotency save failed: %v", err)
		}
	}

	api.Created(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Service.ListRuns(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_runs_failed", "failed to list payroll runs", middleware.GetRequestID(r.Context()))
		return
	}
	if runs == nil {
		runs = []payroll.Run{}
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.GetRunDetail(r.Context(), chi.URLParam(r, "runID"))
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll run not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_run_detail_failed", "failed to load payroll run", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, detail, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")

	run, err := h.Service.Approve(r.Context(), runID)
	if !h.writeLifecycleError(w, r, err) {
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.approve", "payroll_run", runID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, run); err != nil {
		log.Printf("audit payroll.approve failed: %v", err)
	}
	api.SuccessMessage(w, run, "payroll run approved", middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")

	var payload rejectPayload
	if r.Body != nil {
		// reason is optional; an empty body rejects without one
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	run, err := h.Service.Reject(r.Context(), runID, strings.TrimSpace(payload.Reason))
	if !h.writeLifecycleError(w, r, err) {
		return
	}

	message := "payroll run rejected"
	if run.RejectionReason != "" {
		message = run.RejectionReason
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.reject", "payroll_run", runID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, run); err != nil {
		log.Printf("audit payroll.reject failed: %v", err)
	}
	api.SuccessMessage(w, run, message, middleware.GetRequestID(r.Context()))
}

// writeLifecycleError maps approve/reject failures; reports whether the
// caller may proceed.
func (h *Handler) writeLifecycleError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, payroll.ErrRunNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll run not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, payroll.ErrRunNotPending):
		api.Fail(w, http.StatusConflict, "invalid_state_transition", "payroll run is not pending", middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "payroll_update_failed", "failed to update payroll run", middleware.GetRequestID(r.Context()))
	}
	return false
}
