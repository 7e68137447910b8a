package handler

import (
	"log/slog"
	"net/http"

	"github.com/employee-tracker-api/internal/domain"
	"github.com/employee-tracker-api/internal/dto"
	"github.com/employee-tracker-api/internal/service"
)

type RoleHandler struct {
	base
	roleService service.RoleService
}

func NewRoleHandler(roleService service.RoleService, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{
		base:        newBase(logger),
		roleService: roleService,
	}
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.RoleResponse, len(roles))
	for i := range roles {
		resp[i] = toRoleResponse(&roles[i])
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *RoleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.extractID(w, r, "role")
	if !ok {
		return
	}

	role, err := h.roleService.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toRoleResponse(role))
}

func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRoleRequest
	if !h.decode(w, r, &req) {
		return
	}

	role, err := h.roleService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toRoleResponse(role))
}

func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.extractID(w, r, "role")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if !h.decode(w, r, &req) {
		return
	}

	role, err := h.roleService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toRoleResponse(role))
}

func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.extractID(w, r, "role")
	if !ok {
		return
	}

	result, err := h.roleService.Delete(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondDelete(w, r, result)
}

func toRoleSummary(role *domain.Role) dto.RoleSummary {
	return dto.RoleSummary{
		ID:     role.ID,
		Title:  role.Title,
		Salary: role.Salary,
	}
}

func toRoleResponse(role *domain.Role) dto.RoleResponse {
	resp := dto.RoleResponse{
		ID:           role.ID,
		Title:        role.Title,
		Salary:       role.Salary,
		DepartmentID: role.DepartmentID,
		CreatedAt:    role.CreatedAt,
	}

	if role.Department != nil {
		resp.Department = &dto.DepartmentSummary{
			ID:   role.Department.ID,
			Name: role.Department.Name,
		}
	}

	if len(role.Employees) > 0 {
		resp.Employees = make([]dto.EmployeeSummary, len(role.Employees))
		for i, emp := range role.Employees {
			resp.Employees[i] = dto.EmployeeSummary{
				ID:        emp.ID,
				FirstName: emp.FirstName,
				LastName:  emp.LastName,
			}
		}
	}

	return resp
}
