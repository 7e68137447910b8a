package domain

import (
	"time"
)

// Department представляет отдел организации
type Department struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Roles []Role `json:"roles,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnDelete:RESTRICT"`
}

// TableName задаёт имя таблицы для GORM
func (Department) TableName() string {
	return "departments"
}

// Role представляет должность внутри отдела
type Role struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string    `json:"title" gorm:"type:varchar(100);not null"`
	Salary       float64   `json:"salary" gorm:"type:numeric(12,2);not null;default:0"`
	DepartmentID int64     `json:"department_id" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Department *Department `json:"-" gorm:"foreignKey:DepartmentID"`
	Employees  []Employee  `json:"employees,omitempty" gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
}

// TableName задаёт имя таблицы для GORM
func (Role) TableName() string {
	return "roles"
}

// Employee представляет сотрудника. Руководители хранятся здесь же с IsManager = true.
type Employee struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string    `json:"first_name" gorm:"type:varchar(30);not null"`
	LastName  string    `json:"last_name" gorm:"type:varchar(30);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	RoleID    int64     `json:"role_id" gorm:"not null;index"`
	IsManager bool      `json:"is_manager" gorm:"not null;default:false"`
	Salary    float64   `json:"salary" gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Role *Role `json:"-" gorm:"foreignKey:RoleID"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employees"
}

// FullName возвращает "имя фамилия" в том виде, в котором их показывает интерфейс
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// User - учётная запись для входа в систему, не связана с сотрудниками
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"type:varchar(255)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// DeleteResult - исход удаления с проверкой зависимых записей.
// Если Deleted == false, запись не тронута, а Blockers перечисляет мешающие дочерние записи.
type DeleteResult struct {
	Deleted  bool
	Entity   string
	Name     string
	Blockers []string
}

// Blocked сообщает, было ли удаление отклонено из-за дочерних записей
func (r *DeleteResult) Blocked() bool {
	return !r.Deleted && len(r.Blockers) > 0
}

// EmployeeScope определяет, с какой частью сотрудников работает запрос
type EmployeeScope int

const (
	// AllEmployees - все сотрудники, включая руководителей
	AllEmployees EmployeeScope = iota
	// ManagersOnly - только сотрудники с признаком руководителя
	ManagersOnly
)

// Includes сообщает, попадает ли сотрудник в область
func (s EmployeeScope) Includes(e *Employee) bool {
	return s != ManagersOnly || e.IsManager
}

// NotFoundErr возвращает ошибку "не найдено", соответствующую области
func (s EmployeeScope) NotFoundErr() error {
	if s == ManagersOnly {
		return ErrManagerNotFound
	}
	return ErrEmployeeNotFound
}

// Entity возвращает название сущности для сообщений
func (s EmployeeScope) Entity() string {
	if s == ManagersOnly {
		return "manager"
	}
	return "employee"
}
