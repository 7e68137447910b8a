package repository

import (
	"context"
	"errors"

	"github.com/employee-tracker-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleRepository определяет интерфейс для работы с должностями
type RoleRepository interface {
	List(ctx context.Context) ([]domain.Role, error)
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	DeleteUnlessReferenced(ctx context.Context, id int64) (*domain.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository создаёт новый экземпляр репозитория
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.WithContext(ctx).
		Preload("Department").
		Order("id ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Employees", orderByID).
		First(&role, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(role).Error
	return translateRoleError(err)
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Role{}).
		Where("id = ?", role.ID).
		Updates(map[string]any{
			"title":         role.Title,
			"salary":        role.Salary,
			"department_id": role.DepartmentID,
		})
	if result.Error != nil {
		return translateRoleError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// DeleteUnlessReferenced удаляет должность, если её не занимает ни один сотрудник.
// Работает так же, как одноимённый метод отделов: блокировка строки, чтение сотрудников и удаление в одной транзакции.
func (r *roleRepository) DeleteUnlessReferenced(ctx context.Context, id int64) (*domain.Role, error) {
	var role domain.Role

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&role, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRoleNotFound
			}
			return err
		}

		if err := tx.Where("role_id = ?", id).Order("id ASC").Find(&role.Employees).Error; err != nil {
			return err
		}
		if len(role.Employees) > 0 {
			return nil
		}

		return tx.Delete(&domain.Role{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.ErrDeleteConflict
		}
		return nil, err
	}

	return &role, nil
}

func translateRoleError(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.NewValidationError("department_id", "department does not exist")
	}
	return err
}
