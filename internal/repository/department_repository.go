package repository

import (
	"context"
	"errors"

	"github.com/employee-tracker-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DepartmentRepository определяет интерфейс для работы с отделами
type DepartmentRepository interface {
	List(ctx context.Context) ([]domain.Department, error)
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	Create(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	DeleteUnlessReferenced(ctx context.Context, id int64) (*domain.Department, error)
	ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository создаёт новый экземпляр репозитория
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	var departments []domain.Department
	err := r.db.WithContext(ctx).
		Preload("Roles", orderByID).
		Order("id ASC").
		Find(&departments).Error
	return departments, err
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	var dept domain.Department
	err := r.db.WithContext(ctx).Preload("Roles", orderByID).First(&dept, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(dept).Error
	return translateDepartmentError(err)
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Department{}).
		Where("id = ?", dept.ID).
		Update("name", dept.Name)
	if result.Error != nil {
		return translateDepartmentError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

// DeleteUnlessReferenced удаляет отдел, если на него не ссылается ни одна должность.
// Проверка и удаление выполняются в одной транзакции под блокировкой строки отдела,
// поэтому должность, добавленная параллельно, либо будет замечена, либо не пройдёт проверку внешнего ключа.
// Возвращает отдел с загруженными должностями; если список не пуст, ничего не удалено.
func (r *departmentRepository) DeleteUnlessReferenced(ctx context.Context, id int64) (*domain.Department, error) {
	var dept domain.Department

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&dept, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDepartmentNotFound
			}
			return err
		}

		if err := tx.Where("department_id = ?", id).Order("id ASC").Find(&dept.Roles).Error; err != nil {
			return err
		}
		if len(dept.Roles) > 0 {
			return nil
		}

		return tx.Delete(&domain.Department{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.ErrDeleteConflict
		}
		return nil, err
	}

	return &dept, nil
}

func (r *departmentRepository) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Department{}).Where("name = ?", name)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	err := query.Count(&count).Error
	return count > 0, err
}

func translateDepartmentError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateDepartmentName
	}
	return err
}
