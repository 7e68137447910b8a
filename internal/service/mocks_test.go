package service

import (
	"context"
	"testing"

	"github.com/employee-tracker-api/internal/domain"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockDepartmentRepo struct {
	mock.Mock
}

func (m *mockDepartmentRepo) List(ctx context.Context) ([]domain.Department, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Department), args.Error(1)
}

func (m *mockDepartmentRepo) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	args := m.Called(ctx, id)
	dept, _ := args.Get(0).(*domain.Department)
	return dept, args.Error(1)
}

func (m *mockDepartmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	args := m.Called(ctx, dept)
	return args.Error(0)
}

func (m *mockDepartmentRepo) Update(ctx context.Context, dept *domain.Department) error {
	args := m.Called(ctx, dept)
	return args.Error(0)
}

func (m *mockDepartmentRepo) DeleteUnlessReferenced(ctx context.Context, id int64) (*domain.Department, error) {
	args := m.Called(ctx, id)
	dept, _ := args.Get(0).(*domain.Department)
	return dept, args.Error(1)
}

func (m *mockDepartmentRepo) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

type mockRoleRepo struct {
	mock.Mock
}

func (m *mockRoleRepo) List(ctx context.Context) ([]domain.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Role), args.Error(1)
}

func (m *mockRoleRepo) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	args := m.Called(ctx, id)
	role, _ := args.Get(0).(*domain.Role)
	return role, args.Error(1)
}

func (m *mockRoleRepo) Create(ctx context.Context, role *domain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepo) Update(ctx context.Context, role *domain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepo) DeleteUnlessReferenced(ctx context.Context, id int64) (*domain.Role, error) {
	args := m.Called(ctx, id)
	role, _ := args.Get(0).(*domain.Role)
	return role, args.Error(1)
}

type mockEmployeeRepo struct {
	mock.Mock
}

func (m *mockEmployeeRepo) List(ctx context.Context, managersOnly bool) ([]domain.Employee, error) {
	args := m.Called(ctx, managersOnly)
	return args.Get(0).([]domain.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	args := m.Called(ctx, id)
	emp, _ := args.Get(0).(*domain.Employee)
	return emp, args.Error(1)
}

func (m *mockEmployeeRepo) Create(ctx context.Context, emp *domain.Employee) error {
	args := m.Called(ctx, emp)
	return args.Error(0)
}

func (m *mockEmployeeRepo) Update(ctx context.Context, emp *domain.Employee) error {
	args := m.Called(ctx, emp)
	return args.Error(0)
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}
