package repository_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/employee-tracker-api/internal/config"
	"github.com/employee-tracker-api/internal/database"
	"github.com/employee-tracker-api/internal/domain"
	"github.com/employee-tracker-api/internal/repository"
	"github.com/employee-tracker-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type repos struct {
	db          *gorm.DB
	departments repository.DepartmentRepository
	roles       repository.RoleRepository
	employees   repository.EmployeeRepository
	users       repository.UserRepository
}

func newRepos(db *gorm.DB) repos {
	return repos{
		db:          db,
		departments: repository.NewDepartmentRepository(db),
		roles:       repository.NewRoleRepository(db),
		employees:   repository.NewEmployeeRepository(db),
		users:       repository.NewUserRepository(db),
	}
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(ctx, config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:" + name + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	_, err = database.Migrate(ctx, db, config.DriverSQLite)
	require.NoError(t, err)
	return db
}

// openPostgres поднимает PostgreSQL в контейнере; без Docker тест пропускается
func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container skipped in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("employee_tracker"),
		postgres.WithUsername("tracker"),
		postgres.WithPassword("pwd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.Open(openCtx, config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     port.Port(),
		User:     "tracker",
		Password: "pwd",
		DBName:   "employee_tracker",
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	_, err = database.Migrate(ctx, db, config.DriverPostgres)
	require.NoError(t, err)
	return db
}

// forEachBackend прогоняет сценарий на SQLite и, если доступен Docker, на PostgreSQL
func forEachBackend(t *testing.T, fn func(t *testing.T, r repos)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newRepos(openSQLite(t)))
	})
	t.Run("postgres", func(t *testing.T) {
		fn(t, newRepos(openPostgres(t)))
	})
}

func seedRole(t *testing.T, r repos, deptName, title string) (*domain.Department, *domain.Role) {
	t.Helper()
	ctx := context.Background()

	dept := &domain.Department{Name: deptName}
	require.NoError(t, r.departments.Create(ctx, dept))

	role := &domain.Role{Title: title, Salary: 100000, DepartmentID: dept.ID}
	require.NoError(t, r.roles.Create(ctx, role))

	return dept, role
}

func TestDepartmentDelete_BlockedByRoles(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		dept, role := seedRole(t, r, "Engineering", "SWE")

		blocked, err := r.departments.DeleteUnlessReferenced(ctx, dept.ID)
		require.NoError(t, err)
		require.Len(t, blocked.Roles, 1)
		assert.Equal(t, "SWE", blocked.Roles[0].Title)

		_, err = r.departments.GetByID(ctx, dept.ID)
		require.NoError(t, err, "blocked delete must leave the department in place")

		deletedRole, err := r.roles.DeleteUnlessReferenced(ctx, role.ID)
		require.NoError(t, err)
		assert.Empty(t, deletedRole.Employees)

		deleted, err := r.departments.DeleteUnlessReferenced(ctx, dept.ID)
		require.NoError(t, err)
		assert.Empty(t, deleted.Roles)

		_, err = r.departments.GetByID(ctx, dept.ID)
		assert.ErrorIs(t, err, domain.ErrDepartmentNotFound)
	})
}

func TestRoleDelete_BlockedByEmployees(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		_, role := seedRole(t, r, "Engineering", "SWE")

		emp := &domain.Employee{FirstName: "Ada", LastName: "Lovelace", RoleID: role.ID}
		require.NoError(t, r.employees.Create(ctx, emp))

		blocked, err := r.roles.DeleteUnlessReferenced(ctx, role.ID)
		require.NoError(t, err)
		require.Len(t, blocked.Employees, 1)
		assert.Equal(t, "Ada Lovelace", blocked.Employees[0].FullName())

		require.NoError(t, r.employees.Delete(ctx, emp.ID))

		_, err = r.roles.DeleteUnlessReferenced(ctx, role.ID)
		require.NoError(t, err)

		_, err = r.roles.GetByID(ctx, role.ID)
		assert.ErrorIs(t, err, domain.ErrRoleNotFound)
	})
}

func TestDeleteUnlessReferenced_NotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()

		_, err := r.departments.DeleteUnlessReferenced(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrDepartmentNotFound)

		_, err = r.roles.DeleteUnlessReferenced(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrRoleNotFound)

		assert.ErrorIs(t, r.employees.Delete(ctx, 999), domain.ErrEmployeeNotFound)
	})
}

func TestForeignKeysAreEnforced(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()

		err := r.roles.Create(ctx, &domain.Role{Title: "Orphan", DepartmentID: 12345})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "department_id", validationErr.Field)

		err = r.employees.Create(ctx, &domain.Employee{FirstName: "No", LastName: "Role", RoleID: 12345})
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "role_id", validationErr.Field)
	})
}

func TestDepartmentNamesAreUnique(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		require.NoError(t, r.departments.Create(ctx, &domain.Department{Name: "Sales"}))

		err := r.departments.Create(ctx, &domain.Department{Name: "Sales"})
		assert.ErrorIs(t, err, domain.ErrDuplicateDepartmentName)

		exists, err := r.departments.ExistsByName(ctx, "Sales", nil)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestEmployeeList_ManagersOnly(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		_, role := seedRole(t, r, "Engineering", "Lead")

		require.NoError(t, r.employees.Create(ctx, &domain.Employee{FirstName: "Grace", LastName: "Hopper", RoleID: role.ID}))
		require.NoError(t, r.employees.Create(ctx, &domain.Employee{FirstName: "Linus", LastName: "Torvalds", RoleID: role.ID, IsManager: true}))

		all, err := r.employees.List(ctx, false)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		managers, err := r.employees.List(ctx, true)
		require.NoError(t, err)
		require.Len(t, managers, 1)
		assert.Equal(t, "Linus", managers[0].FirstName)
		require.NotNil(t, managers[0].Role)
		assert.Equal(t, "Lead", managers[0].Role.Title)
	})
}

func TestEmployeeUpdate_ChangesRole(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		dept, role := seedRole(t, r, "Engineering", "SWE")
		other := &domain.Role{Title: "SRE", DepartmentID: dept.ID}
		require.NoError(t, r.roles.Create(ctx, other))

		emp := &domain.Employee{FirstName: "Ada", LastName: "Lovelace", RoleID: role.ID}
		require.NoError(t, r.employees.Create(ctx, emp))

		emp.RoleID = other.ID
		emp.IsManager = true
		require.NoError(t, r.employees.Update(ctx, emp))

		reloaded, err := r.employees.GetByID(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, other.ID, reloaded.RoleID)
		assert.True(t, reloaded.IsManager)
	})
}

func TestUsers(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		require.NoError(t, r.users.Create(ctx, &domain.User{Username: "admin", PasswordHash: "hash"}))

		err := r.users.Create(ctx, &domain.User{Username: "admin", PasswordHash: "other"})
		assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

		user, err := r.users.GetByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, "hash", user.PasswordHash)

		_, err = r.users.GetByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

const raceRounds = 25

// assertNoOrphans проверяет, что ни одна должность и ни один сотрудник не ссылаются на удалённую запись
func assertNoOrphans(t *testing.T, db *gorm.DB) {
	t.Helper()

	var orphanRoles, orphanEmployees int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM roles r
		LEFT JOIN departments d ON d.id = r.department_id
		WHERE d.id IS NULL`).Scan(&orphanRoles).Error)
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM employees e
		LEFT JOIN roles r ON r.id = e.role_id
		WHERE r.id IS NULL`).Scan(&orphanEmployees).Error)

	assert.Zero(t, orphanRoles, "roles without a department")
	assert.Zero(t, orphanEmployees, "employees without a role")
}

func TestDepartmentDelete_RacesRoleCreate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		deptService := service.NewDepartmentService(r.departments)

		for i := range raceRounds {
			dept := &domain.Department{Name: fmt.Sprintf("Race %d", i)}
			require.NoError(t, r.departments.Create(ctx, dept))

			var (
				wg        sync.WaitGroup
				createErr error
				deleteErr error
				result    *domain.DeleteResult
			)
			wg.Add(2)
			go func() {
				defer wg.Done()
				createErr = r.roles.Create(ctx, &domain.Role{Title: "Racer", DepartmentID: dept.ID})
			}()
			go func() {
				defer wg.Done()
				result, deleteErr = deptService.Delete(ctx, dept.ID)
			}()
			wg.Wait()

			require.NoError(t, deleteErr, "round %d", i)
			roleCreated := createErr == nil
			assert.NotEqual(t, roleCreated, result.Deleted, "round %d: exactly one of create and delete must win", i)

			if roleCreated {
				assert.Equal(t, []string{"Racer"}, result.Blockers, "round %d", i)
				_, err := r.departments.GetByID(ctx, dept.ID)
				assert.NoError(t, err, "round %d: blocked department must remain", i)
			} else {
				var validationErr *domain.ValidationError
				assert.ErrorAs(t, createErr, &validationErr, "round %d", i)
			}
		}

		assertNoOrphans(t, r.db)
	})
}

func TestRoleDelete_RacesEmployeeCreate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, r repos) {
		ctx := context.Background()
		roleService := service.NewRoleService(r.roles, r.departments)

		dept := &domain.Department{Name: "Race"}
		require.NoError(t, r.departments.Create(ctx, dept))

		for i := range raceRounds {
			role := &domain.Role{Title: fmt.Sprintf("Role %d", i), DepartmentID: dept.ID}
			require.NoError(t, r.roles.Create(ctx, role))

			var (
				wg        sync.WaitGroup
				createErr error
				deleteErr error
				result    *domain.DeleteResult
			)
			wg.Add(2)
			go func() {
				defer wg.Done()
				createErr = r.employees.Create(ctx, &domain.Employee{FirstName: "Race", LastName: "Runner", RoleID: role.ID})
			}()
			go func() {
				defer wg.Done()
				result, deleteErr = roleService.Delete(ctx, role.ID)
			}()
			wg.Wait()

			require.NoError(t, deleteErr, "round %d", i)
			employeeCreated := createErr == nil
			assert.NotEqual(t, employeeCreated, result.Deleted, "round %d: exactly one of create and delete must win", i)

			if employeeCreated {
				assert.Equal(t, []string{"Race Runner"}, result.Blockers, "round %d", i)
			} else {
				var validationErr *domain.ValidationError
				assert.ErrorAs(t, createErr, &validationErr, "round %d", i)
			}
		}

		assertNoOrphans(t, r.db)
	})
}
