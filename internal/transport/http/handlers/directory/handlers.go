package directoryhandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/audit"
	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/directory"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	Store *directory.Store
	Audit *audit.Service
	Perms middleware.PermissionStore
}

func NewHandler(store *directory.Store, auditSvc *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Store: store, Audit: auditSvc, Perms: perms}
}

type employeePayload struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	JobRole          string  `json:"jobRole"`
	Salary           float64 `json:"salary"`
	Allowances       float64 `json:"allowances"`
	Deductions       float64 `json:"deductions"`
	EmploymentStatus string  `json:"employmentStatus"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/{employeeID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	if employees == nil {
		employees = []directory.Employee{}
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetByID(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, directory.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.validate(w, r, &payload) {
		return
	}

	created, err := h.Store.Create(r.Context(), directory.Employee{
		Name:             strings.TrimSpace(payload.Name),
		Email:            strings.ToLower(strings.TrimSpace(payload.Email)),
		JobRole:          strings.TrimSpace(payload.JobRole),
		Salary:           payload.Salary,
		Allowances:       payload.Allowances,
		Deductions:       payload.Deductions,
		EmploymentStatus: payload.EmploymentStatus,
	})
	if errors.Is(err, directory.ErrDuplicateEmail) {
		api.Fail(w, http.StatusConflict, "duplicate_email", "employee with this email already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.create", "employee", created.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, created); err != nil {
		log.Printf("audit employee.create failed: %v", err)
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	before, err := h.Store.GetByID(r.Context(), employeeID)
	if errors.Is(err, directory.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.validate(w, r, &payload) {
		return
	}

	updated, err := h.Store.Update(r.Context(), directory.Employee{
		ID:               employeeID,
		Name:             strings.TrimSpace(payload.Name),
		Email:            strings.ToLower(strings.TrimSpace(payload.Email)),
		JobRole:          strings.TrimSpace(payload.JobRole),
		Salary:           payload.Salary,
		Allowances:       payload.Allowances,
		Deductions:       payload.Deductions,
		EmploymentStatus: payload.EmploymentStatus,
	})
	if errors.Is(err, directory.ErrDuplicateEmail) {
		api.Fail(w, http.StatusConflict, "duplicate_email", "employee with this email already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if errors.Is(err, directory.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.update", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, updated); err != nil {
		log.Printf("audit employee.update failed: %v", err)
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	before, err := h.Store.GetByID(r.Context(), employeeID)
	if errors.Is(err, directory.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.Delete(r.Context(), employeeID); err != nil {
		if errors.Is(err, directory.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.delete", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, nil); err != nil {
		log.Printf("audit employee.delete failed: %v", err)
	}
	api.SuccessMessage(w, nil, "employee deleted", middleware.GetRequestID(r.Context()))
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request, payload *employeePayload) bool {
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("email", payload.Email, "is required")
	v.Required("employmentStatus", payload.EmploymentStatus, "is required")
	v.Enum("employmentStatus", payload.EmploymentStatus,
		[]string{directory.StatusActive, directory.StatusInactive, directory.StatusTerminated},
		"must be active, inactive or terminated")
	v.NonNegative("salary", payload.Salary)
	v.NonNegative("allowances", payload.Allowances)
	v.NonNegative("deductions", payload.Deductions)
	return !v.Reject(w, middleware.GetRequestID(r.Context()))
}
