package service

import (
	"context"
	"strings"

	"github.com/employee-tracker-api/internal/domain"
	"github.com/employee-tracker-api/internal/dto"
	"github.com/employee-tracker-api/internal/repository"
)

// DepartmentService определяет интерфейс бизнес-логики для отделов
type DepartmentService interface {
	List(ctx context.Context) ([]domain.Department, error)
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*domain.Department, error)
	Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*domain.Department, error)
	Delete(ctx context.Context, id int64) (*domain.DeleteResult, error)
}

type departmentService struct {
	deptRepo repository.DepartmentRepository
}

// NewDepartmentService создаёт новый экземпляр сервиса
func NewDepartmentService(deptRepo repository.DepartmentRepository) DepartmentService {
	return &departmentService{deptRepo: deptRepo}
}

func (s *departmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.deptRepo.List(ctx)
}

func (s *departmentService) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	return s.deptRepo.GetByID(ctx, id)
}

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*domain.Department, error) {
	name, err := requireText("name", req.Name)
	if err != nil {
		return nil, err
	}

	// Проверяем уникальность имени
	exists, err := s.deptRepo.ExistsByName(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateDepartmentName
	}

	dept := &domain.Department{Name: name}
	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, err
	}

	return dept, nil
}

func (s *departmentService) Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*domain.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := requireText("name", *req.Name)
		if err != nil {
			return nil, err
		}

		exists, err := s.deptRepo.ExistsByName(ctx, name, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateDepartmentName
		}

		dept.Name = name
	}

	if err := s.deptRepo.Update(ctx, dept); err != nil {
		return nil, err
	}

	return dept, nil
}

// Delete удаляет отдел только если на него не ссылается ни одна должность.
// Отказ возвращается как результат со списком названий должностей, а не как ошибка.
func (s *departmentService) Delete(ctx context.Context, id int64) (*domain.DeleteResult, error) {
	var dept *domain.Department
	err := retryOnConflict(ctx, func() error {
		var err error
		dept, err = s.deptRepo.DeleteUnlessReferenced(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &domain.DeleteResult{Entity: "department", Name: dept.Name}
	for _, role := range dept.Roles {
		result.Blockers = append(result.Blockers, role.Title)
	}
	result.Deleted = len(result.Blockers) == 0

	return result, nil
}

// requireText обрезает пробелы и отклоняет пустые значения обязательных полей
func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.NewValidationError(field, "must not be blank")
	}
	return value, nil
}
