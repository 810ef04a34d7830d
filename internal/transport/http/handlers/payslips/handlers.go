package payslipshandler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/directory"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
)

type Handler struct {
	Service   *payroll.Service
	Directory *directory.Store
	Perms     middleware.PermissionStore
}

func NewHandler(service *payroll.Service, dir *directory.Store, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Directory: dir, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payslips", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayslipsReadAll, h.Perms)).Get("/", h.handleListAll)
		r.With(middleware.RequirePermission(auth.PermPayslipsRead, h.Perms)).Get("/my", h.handleListMine)
		r.With(middleware.RequirePermission(auth.PermPayslipsRead, h.Perms)).Get("/{payslipID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPayslipsRead, h.Perms)).Get("/{payslipID}/download", h.handleDownload)
	})
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	slips, err := h.Service.ListPayslips(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslips_list_failed", "failed to list payslips", middleware.GetRequestID(r.Context()))
		return
	}
	if slips == nil {
		slips = []payroll.Payslip{}
	}
	api.Success(w, slips, middleware.GetRequestID(r.Context()))
}

// handleListMine resolves the caller to an employee by email. Users without
// an employee record get an empty list, not an error.
func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.GetByEmail(r.Context(), user.Email)
	if errors.Is(err, directory.ErrEmployeeNotFound) {
		api.SuccessMessage(w, []payroll.Payslip{}, "no employee record found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslips_list_failed", "failed to resolve employee", middleware.GetRequestID(r.Context()))
		return
	}

	slips, err := h.Service.ListEmployeePayslips(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslips_list_failed", "failed to list payslips", middleware.GetRequestID(r.Context()))
		return
	}
	if slips == nil {
		slips = []payroll.Payslip{}
	}
	api.Success(w, slips, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	slip, ok := h.loadAuthorized(w, r)
	if !ok {
		return
	}
	api.Success(w, slip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	slip, ok := h.loadAuthorized(w, r)
	if !ok {
		return
	}

	pdf, err := payroll.RenderPayslipPDF(*slip)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_render_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", slip.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// loadAuthorized fetches the payslip and enforces ownership: callers without
// the read-all permission may only access their own payslips.
func (h *Handler) loadAuthorized(w http.ResponseWriter, r *http.Request) (*payroll.Payslip, bool) {
	user, _ := middleware.GetUser(r.Context())

	slip, err := h.Service.GetPayslip(r.Context(), chi.URLParam(r, "payslipID"))
	if errors.Is(err, payroll.ErrPayslipNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_get_failed", "failed to load payslip", middleware.GetRequestID(r.Context()))
		return nil, false
	}

	readAll, err := h.Perms.HasPermission(r.Context(), user.RoleID, auth.PermPayslipsReadAll)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	if !readAll {
		emp, err := h.Directory.GetByID(r.Context(), slip.EmployeeID)
		if err != nil || emp.Email != user.Email {
			api.Fail(w, http.StatusForbidden, "forbidden", "payslip belongs to another employee", middleware.GetRequestID(r.Context()))
			return nil, false
		}
	}
	return slip, true
}
