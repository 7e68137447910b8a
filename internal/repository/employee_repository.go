package repository

import (
	"context"
	"errors"

	"github.com/employee-tracker-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	List(ctx context.Context, managersOnly bool) ([]domain.Employee, error)
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	Create(ctx context.Context, emp *domain.Employee) error
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, id int64) error
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) List(ctx context.Context, managersOnly bool) ([]domain.Employee, error) {
	var employees []domain.Employee

	query := r.db.WithContext(ctx).Preload("Role")
	if managersOnly {
		query = query.Where("is_manager = ?", true)
	}

	err := query.Order("id ASC").Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).Preload("Role").First(&emp, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(emp).Error
	return translateEmployeeError(err)
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("id = ?", emp.ID).
		Updates(map[string]any{
			"first_name": emp.FirstName,
			"last_name":  emp.LastName,
			"email":      emp.Email,
			"role_id":    emp.RoleID,
			"is_manager": emp.IsManager,
			"salary":     emp.Salary,
		})
	if result.Error != nil {
		return translateEmployeeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// Delete удаляет сотрудника без каких-либо проверок: на сотрудников ничто не ссылается
func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Employee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func translateEmployeeError(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.NewValidationError("role_id", "role does not exist")
	}
	return err
}
