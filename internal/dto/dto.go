package dto

import (
	"time"
)

// CreateDepartmentRequest - запрос на создание отдела
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateDepartmentRequest - запрос на обновление отдела
type UpdateDepartmentRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

// CreateRoleRequest - запрос на создание должности
type CreateRoleRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=100"`
	Salary       float64 `json:"salary" validate:"gte=0,lte=9999999999.99"`
	DepartmentID int64   `json:"department_id" validate:"required,min=1"`
}

// UpdateRoleRequest - запрос на обновление должности
type UpdateRoleRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=100"`
	Salary       *float64 `json:"salary" validate:"omitempty,gte=0,lte=9999999999.99"`
	DepartmentID *int64   `json:"department_id" validate:"omitempty,min=1"`
}

// CreateEmployeeRequest - запрос на создание сотрудника или руководителя
type CreateEmployeeRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=1,max=30"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=30"`
	Email     string  `json:"email" validate:"omitempty,email,max=255"`
	RoleID    int64   `json:"role_id" validate:"required,min=1"`
	IsManager bool    `json:"is_manager"`
	Salary    float64 `json:"salary" validate:"gte=0,lte=9999999999.99"`
}

// UpdateEmployeeRequest - запрос на обновление сотрудника или руководителя
type UpdateEmployeeRequest struct {
	FirstName *string  `json:"first_name" validate:"omitempty,min=1,max=30"`
	LastName  *string  `json:"last_name" validate:"omitempty,min=1,max=30"`
	Email     *string  `json:"email" validate:"omitempty,email,max=255"`
	RoleID    *int64   `json:"role_id" validate:"omitempty,min=1"`
	IsManager *bool    `json:"is_manager"`
	Salary    *float64 `json:"salary" validate:"omitempty,gte=0,lte=9999999999.99"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

// DepartmentResponse - ответ с данными отдела
type DepartmentResponse struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	Roles     []RoleSummary `json:"roles"`
}

// RoleSummary - краткие сведения о должности внутри отдела или сотрудника
type RoleSummary struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Salary float64 `json:"salary"`
}

// DepartmentSummary - краткие сведения об отделе внутри должности
type DepartmentSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EmployeeSummary - краткие сведения о сотруднике внутри должности
type EmployeeSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RoleResponse - ответ с данными должности
type RoleResponse struct {
	ID           int64              `json:"id"`
	Title        string             `json:"title"`
	Salary       float64            `json:"salary"`
	DepartmentID int64              `json:"department_id"`
	CreatedAt    time.Time          `json:"created_at"`
	Department   *DepartmentSummary `json:"department,omitempty"`
	Employees    []EmployeeSummary  `json:"employees,omitempty"`
}

// EmployeeResponse - ответ с данными сотрудника
type EmployeeResponse struct {
	ID        int64        `json:"id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `json:"email"`
	RoleID    int64        `json:"role_id"`
	IsManager bool         `json:"is_manager"`
	Salary    float64      `json:"salary"`
	CreatedAt time.Time    `json:"created_at"`
	Role      *RoleSummary `json:"role,omitempty"`
}

// DeleteResponse - результат удаления. Отказ из-за зависимых записей не считается ошибкой.
type DeleteResponse struct {
	Deleted  bool     `json:"deleted"`
	Message  string   `json:"message,omitempty"`
	Blockers []string `json:"blockers,omitempty"`
}

// UserResponse - публичные данные пользователя
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse - ответ на успешный вход
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
