package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/employee-tracker-api/internal/auth"
	"github.com/employee-tracker-api/internal/config"
	"github.com/employee-tracker-api/internal/database"
	"github.com/employee-tracker-api/internal/domain"
	"github.com/employee-tracker-api/internal/handler"
	"github.com/employee-tracker-api/internal/repository"
	"github.com/employee-tracker-api/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), logger)
		},
	}
}

// app - собранные зависимости приложения
type app struct {
	cfg  *config.Config
	db   *gorm.DB
	auth service.AuthService
	http http.Handler
}

// bootstrap загружает конфигурацию, подключается к БД и собирает все слои
func bootstrap(ctx context.Context, logger *slog.Logger) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	applied, err := database.Migrate(ctx, db, cfg.Database.Driver)
	if err != nil {
		database.Close(db)
		return nil, err
	}
	logger.Info("migrations applied", slog.Int("count", applied), slog.String("driver", cfg.Database.Driver))

	// Инициализация репозиториев
	deptRepo := repository.NewDepartmentRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Инициализация сервисов
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService, err := service.NewAuthService(userRepo, auth.NewBcryptHasher(), tokens)
	if err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to init auth service: %w", err)
	}
	deptService := service.NewDepartmentService(deptRepo)
	roleService := service.NewRoleService(roleRepo, deptRepo)
	empService := service.NewEmployeeService(empRepo, roleRepo)

	// Инициализация хендлеров
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, cfg.Auth.CookieSecure, logger),
		Departments: handler.NewDepartmentHandler(deptService, logger),
		Roles:       handler.NewRoleHandler(roleService, logger),
		Employees:   handler.NewEmployeeHandler(empService, domain.AllEmployees, logger),
		Managers:    handler.NewEmployeeHandler(empService, domain.ManagersOnly, logger),
	}

	return &app{
		cfg:  cfg,
		db:   db,
		auth: authService,
		http: handler.NewRouter(handlers, authService, logger).Setup(),
	}, nil
}

func runServe(ctx context.Context, logger *slog.Logger) error {
	a, err := bootstrap(ctx, logger)
	if err != nil {
		return err
	}
	defer database.Close(a.db)

	if a.cfg.Admin.Enabled() {
		created, err := a.auth.EnsureUser(ctx, a.cfg.Admin.Username, a.cfg.Admin.Email, a.cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		if created {
			logger.Info("admin user created", slog.String("username", a.cfg.Admin.Username))
		}
	}

	// Настройка HTTP сервера
	server := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      a.http,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is starting", slog.String("port", a.cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("could not listen on port %s: %w", a.cfg.Server.Port, err)
		}
	case <-ctx.Done():
		logger.Info("server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not gracefully shutdown the server: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
