package service

import (
	"context"
	"errors"
	"strings"

	"github.com/employee-tracker-api/internal/domain"
	"github.com/employee-tracker-api/internal/dto"
	"github.com/employee-tracker-api/internal/repository"
)

// EmployeeService определяет интерфейс бизнес-логики для сотрудников.
// Руководители - те же сотрудники с признаком is_manager, scope сужает выборку до них.
type EmployeeService interface {
	List(ctx context.Context, scope domain.EmployeeScope) ([]domain.Employee, error)
	GetByID(ctx context.Context, scope domain.EmployeeScope, id int64) (*domain.Employee, error)
	Create(ctx context.Context, scope domain.EmployeeScope, req *dto.CreateEmployeeRequest) (*domain.Employee, error)
	Update(ctx context.Context, scope domain.EmployeeScope, id int64, req *dto.UpdateEmployeeRequest) (*domain.Employee, error)
	Delete(ctx context.Context, scope domain.EmployeeScope, id int64) (*domain.DeleteResult, error)
}

type employeeService struct {
	empRepo  repository.EmployeeRepository
	roleRepo repository.RoleRepository
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(empRepo repository.EmployeeRepository, roleRepo repository.RoleRepository) EmployeeService {
	return &employeeService{
		empRepo:  empRepo,
		roleRepo: roleRepo,
	}
}

func (s *employeeService) List(ctx context.Context, scope domain.EmployeeScope) ([]domain.Employee, error) {
	return s.empRepo.List(ctx, scope == domain.ManagersOnly)
}

func (s *employeeService) GetByID(ctx context.Context, scope domain.EmployeeScope, id int64) (*domain.Employee, error) {
	emp, err := s.empRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return nil, scope.NotFoundErr()
		}
		return nil, err
	}
	if !scope.Includes(emp) {
		return nil, scope.NotFoundErr()
	}
	return emp, nil
}

func (s *employeeService) Create(ctx context.Context, scope domain.EmployeeScope, req *dto.CreateEmployeeRequest) (*domain.Employee, error) {
	firstName, err := requireText("first_name", req.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := requireText("last_name", req.LastName)
	if err != nil {
		return nil, err
	}

	role, err := s.resolveRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	emp := &domain.Employee{
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.TrimSpace(req.Email),
		RoleID:    role.ID,
		IsManager: req.IsManager || scope == domain.ManagersOnly,
		Salary:    req.Salary,
	}
	if err := s.empRepo.Create(ctx, emp); err != nil {
		return nil, err
	}
	emp.Role = role

	return emp, nil
}

func (s *employeeService) Update(ctx context.Context, scope domain.EmployeeScope, id int64, req *dto.UpdateEmployeeRequest) (*domain.Employee, error) {
	emp, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		if emp.FirstName, err = requireText("first_name", *req.FirstName); err != nil {
			return nil, err
		}
	}
	if req.LastName != nil {
		if emp.LastName, err = requireText("last_name", *req.LastName); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		emp.Email = strings.TrimSpace(*req.Email)
	}
	if req.Salary != nil {
		emp.Salary = *req.Salary
	}
	if req.IsManager != nil {
		emp.IsManager = *req.IsManager
	}

	// Проверяем, что новая должность существует
	if req.RoleID != nil && *req.RoleID != emp.RoleID {
		role, err := s.resolveRole(ctx, *req.RoleID)
		if err != nil {
			return nil, err
		}
		emp.RoleID = role.ID
		emp.Role = role
	}

	if err := s.empRepo.Update(ctx, emp); err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return nil, scope.NotFoundErr()
		}
		return nil, err
	}

	return emp, nil
}

// Delete удаляет сотрудника без проверок зависимостей
func (s *employeeService) Delete(ctx context.Context, scope domain.EmployeeScope, id int64) (*domain.DeleteResult, error) {
	emp, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if err := s.empRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return nil, scope.NotFoundErr()
		}
		return nil, err
	}

	return &domain.DeleteResult{
		Deleted: true,
		Entity:  scope.Entity(),
		Name:    emp.FullName(),
	}, nil
}

// resolveRole превращает отсутствующую должность в ошибку валидации поля role_id
func (s *employeeService) resolveRole(ctx context.Context, id int64) (*domain.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil, domain.NewValidationError("role_id", "role does not exist")
		}
		return nil, err
	}
	return role, nil
}
