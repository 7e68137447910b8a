package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/employee-tracker-api/internal/auth"
	"github.com/employee-tracker-api/internal/domain"
	"github.com/employee-tracker-api/internal/dto"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	maxBodyBytes         = 1 << 20
	malformedBodyMessage = "request body must be a single JSON object"
)

// InvalidCredentialsMessage - единое сообщение для любой неудачной попытки входа
const InvalidCredentialsMessage = "Incorrect username or password, please try again"

// base содержит общие для всех хендлеров зависимости и помощники ответа
type base struct {
	validator *validator.Validate
	logger    *slog.Logger
}

func newBase(logger *slog.Logger) base {
	return base{
		validator: validator.New(),
		logger:    logger,
	}
}

// decode читает JSON тело запроса и валидирует его; при ошибке ответ уже отправлен
func (h *base) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Debug("failed to decode request body", slog.String("path", r.URL.Path), slog.Any("error", err))
		h.respondError(w, http.StatusBadRequest, "invalid request body", malformedBodyMessage)
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return false
	}

	return true
}

func (h *base) extractID(w http.ResponseWriter, r *http.Request, entity string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid "+entity+" id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func notFoundMessage(entity string) string {
	return fmt.Sprintf("No %s found with that id!", entity)
}

func (h *base) handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrDepartmentNotFound):
		h.respondError(w, http.StatusNotFound, "not found", notFoundMessage("department"))
	case errors.Is(err, domain.ErrRoleNotFound):
		h.respondError(w, http.StatusNotFound, "not found", notFoundMessage("role"))
	case errors.Is(err, domain.ErrEmployeeNotFound):
		h.respondError(w, http.StatusNotFound, "not found", notFoundMessage("employee"))
	case errors.Is(err, domain.ErrManagerNotFound):
		h.respondError(w, http.StatusNotFound, "not found", notFoundMessage("manager"))
	case errors.As(err, &validationErr):
		h.respondError(w, http.StatusBadRequest, "validation error", validationErr.Error())
	case errors.Is(err, domain.ErrDuplicateDepartmentName):
		h.respondError(w, http.StatusConflict, "department with this name already exists", "")
	case errors.Is(err, domain.ErrDuplicateUsername):
		h.respondError(w, http.StatusConflict, "user with this username already exists", "")
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, "unauthorized", InvalidCredentialsMessage)
	case errors.Is(err, domain.ErrDeleteConflict):
		h.respondError(w, http.StatusConflict, "record changed during delete, please retry", "")
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

// respondDelete отвечает 200 в обоих исходах: отказ из-за зависимых записей - штатный результат
func (h *base) respondDelete(w http.ResponseWriter, r *http.Request, result *domain.DeleteResult) {
	resp := dto.DeleteResponse{Deleted: result.Deleted}

	if result.Blocked() {
		resp.Message = blockedMessage(result)
		resp.Blockers = result.Blockers
	}

	attrs := []any{
		slog.String("entity", result.Entity),
		slog.String("name", result.Name),
		slog.Bool("deleted", result.Deleted),
	}
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		attrs = append(attrs, slog.String("user", id.Username))
	}
	h.logger.Info("delete requested", attrs...)

	h.respondJSON(w, http.StatusOK, resp)
}

func blockedMessage(result *domain.DeleteResult) string {
	switch result.Entity {
	case "department":
		return fmt.Sprintf("Cannot delete %s department. Please remove associated role(s) first.", result.Name)
	case "role":
		return fmt.Sprintf("Cannot delete %s role. Please remove associated employee(s) first.", result.Name)
	default:
		return fmt.Sprintf("Cannot delete %s. Please remove dependent records first.", result.Name)
	}
}

func (h *base) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *base) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
