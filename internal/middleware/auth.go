package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/employee-tracker-api/internal/auth"
	"github.com/employee-tracker-api/internal/domain"
	"github.com/employee-tracker-api/internal/dto"
)

// TokenCookieName - cookie, в которую вход кладёт токен сессии
const TokenCookieName = "token"

// Authorizer проверяет токен и возвращает пользователя
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*auth.Identity, error)
}

// Authenticate пропускает запрос дальше только с действительным токеном.
// Токен берётся из заголовка Authorization: Bearer, затем из cookie.
func Authenticate(authorizer Authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := tokenFromRequest(r)
			if !ok {
				unauthorized(w, logger, "authentication required")
				return
			}

			identity, err := authorizer.Authorize(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					unauthorized(w, logger, "session expired, please log in again")
				case errors.Is(err, domain.ErrUnauthenticated):
					unauthorized(w, logger, "authentication required")
				default:
					logger.Error("failed to authorize request", slog.Any("error", err))
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "internal server error"})
				}
				return
			}

			setRequestUser(r.Context(), identity.Username)
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return "", false
		}
		return strings.TrimSpace(token), true
	}

	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	return "", false
}

func unauthorized(w http.ResponseWriter, logger *slog.Logger, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="employee-tracker"`)
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "unauthorized", Message: message}); err != nil {
		logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
