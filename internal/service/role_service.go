package service

import (
	"context"
	"errors"

	"github.com/employee-tracker-api/internal/domain"
	"github.com/employee-tracker-api/internal/dto"
	"github.com/employee-tracker-api/internal/repository"
)

// RoleService определяет интерфейс бизнес-логики для должностей
type RoleService interface {
	List(ctx context.Context) ([]domain.Role, error)
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	Create(ctx context.Context, req *dto.CreateRoleRequest) (*domain.Role, error)
	Update(ctx context.Context, id int64, req *dto.UpdateRoleRequest) (*domain.Role, error)
	Delete(ctx context.Context, id int64) (*domain.DeleteResult, error)
}

type roleService struct {
	roleRepo repository.RoleRepository
	deptRepo repository.DepartmentRepository
}

// NewRoleService создаёт новый экземпляр сервиса
func NewRoleService(roleRepo repository.RoleRepository, deptRepo repository.DepartmentRepository) RoleService {
	return &roleService{
		roleRepo: roleRepo,
		deptRepo: deptRepo,
	}
}

func (s *roleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *roleService) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	return s.roleRepo.GetByID(ctx, id)
}

func (s *roleService) Create(ctx context.Context, req *dto.CreateRoleRequest) (*domain.Role, error) {
	title, err := requireText("title", req.Title)
	if err != nil {
		return nil, err
	}

	dept, err := s.resolveDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	role := &domain.Role{
		Title:        title,
		Salary:       req.Salary,
		DepartmentID: dept.ID,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	role.Department = dept

	return role, nil
}

func (s *roleService) Update(ctx context.Context, id int64, req *dto.UpdateRoleRequest) (*domain.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title, err := requireText("title", *req.Title)
		if err != nil {
			return nil, err
		}
		role.Title = title
	}

	if req.Salary != nil {
		role.Salary = *req.Salary
	}

	// Проверяем, что новый отдел существует
	if req.DepartmentID != nil && *req.DepartmentID != role.DepartmentID {
		dept, err := s.resolveDepartment(ctx, *req.DepartmentID)
		if err != nil {
			return nil, err
		}
		role.DepartmentID = dept.ID
		role.Department = dept
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

// Delete удаляет должность только если её не занимает ни один сотрудник.
// Мешающие сотрудники перечисляются как "имя фамилия".
func (s *roleService) Delete(ctx context.Context, id int64) (*domain.DeleteResult, error) {
	var role *domain.Role
	err := retryOnConflict(ctx, func() error {
		var err error
		role, err = s.roleRepo.DeleteUnlessReferenced(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &domain.DeleteResult{Entity: "role", Name: role.Title}
	for _, emp := range role.Employees {
		result.Blockers = append(result.Blockers, emp.FullName())
	}
	result.Deleted = len(result.Blockers) == 0

	return result, nil
}

// resolveDepartment превращает отсутствующий отдел в ошибку валидации поля department_id
func (s *roleService) resolveDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDepartmentNotFound) {
			return nil, domain.NewValidationError("department_id", "department does not exist")
		}
		return nil, err
	}
	return dept, nil
}
