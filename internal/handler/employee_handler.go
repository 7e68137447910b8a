package handler

import (
	"log/slog"
	"net/http"

	"github.com/employee-tracker-api/internal/domain"
	"github.com/employee-tracker-api/internal/dto"
	"github.com/employee-tracker-api/internal/service"
)

// EmployeeHandler обслуживает /api/employees и /api/managers; они отличаются только областью выборки
type EmployeeHandler struct {
	base
	empService service.EmployeeService
	scope      domain.EmployeeScope
}

func NewEmployeeHandler(empService service.EmployeeService, scope domain.EmployeeScope, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		base:       newBase(logger),
		empService: empService,
		scope:      scope,
	}
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.empService.List(r.Context(), h.scope)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.EmployeeResponse, len(employees))
	for i := range employees {
		resp[i] = toEmployeeResponse(&employees[i])
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.extractID(w, r, h.scope.Entity())
	if !ok {
		return
	}

	emp, err := h.empService.GetByID(r.Context(), h.scope, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.empService.Create(r.Context(), h.scope, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.extractID(w, r, h.scope.Entity())
	if !ok {
		return
	}

	var req dto.UpdateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.empService.Update(r.Context(), h.scope, id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.extractID(w, r, h.scope.Entity())
	if !ok {
		return
	}

	result, err := h.empService.Delete(r.Context(), h.scope, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondDelete(w, r, result)
}

func toEmployeeResponse(emp *domain.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:        emp.ID,
		FirstName: emp.FirstName,
		LastName:  emp.LastName,
		Email:     emp.Email,
		RoleID:    emp.RoleID,
		IsManager: emp.IsManager,
		Salary:    emp.Salary,
		CreatedAt: emp.CreatedAt,
	}

	if emp.Role != nil {
		summary := toRoleSummary(emp.Role)
		resp.Role = &summary
	}

	return resp
}
