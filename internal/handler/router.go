package handler

import (
	"log/slog"
	"net/http"

	"github.com/employee-tracker-api/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Handlers собирает хендлеры всех ресурсов API
type Handlers struct {
	Auth        *AuthHandler
	Departments *DepartmentHandler
	Roles       *RoleHandler
	Employees   *EmployeeHandler
	Managers    *EmployeeHandler
}

// crudHandler - общий набор операций ресурса
type crudHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// Router настраивает маршруты API
type Router struct {
	handlers   Handlers
	authorizer middleware.Authorizer
	logger     *slog.Logger
	base       base
}

// NewRouter создаёт новый роутер
func NewRouter(handlers Handlers, authorizer middleware.Authorizer, logger *slog.Logger) *Router {
	return &Router{
		handlers:   handlers,
		authorizer: authorizer,
		logger:     logger,
		base:       newBase(logger),
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Recoverer(r.logger))
	mux.Use(middleware.Logger(r.logger))
	mux.Use(middleware.ContentType)

	mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		r.base.respondError(w, http.StatusNotFound, "not found", "")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		r.base.respondError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	})

	mux.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		r.base.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Route("/api", func(api chi.Router) {
		api.Post("/login", r.handlers.Auth.Login)
		api.Post("/logout", r.handlers.Auth.Logout)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticate(r.authorizer, r.logger))

			mountCRUD(protected, "/departments", r.handlers.Departments)
			mountCRUD(protected, "/roles", r.handlers.Roles)
			mountCRUD(protected, "/employees", r.handlers.Employees)
			mountCRUD(protected, "/managers", r.handlers.Managers)
		})
	})

	return mux
}

func mountCRUD(router chi.Router, pattern string, h crudHandler) {
	router.Route(pattern, func(res chi.Router) {
		res.Get("/", h.List)
		res.Post("/", h.Create)
		res.Get("/{id}", h.GetByID)
		res.Put("/{id}", h.Update)
		res.Delete("/{id}", h.Delete)
	})
}
