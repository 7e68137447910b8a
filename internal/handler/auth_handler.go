package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/employee-tracker-api/internal/dto"
	"github.com/employee-tracker-api/internal/middleware"
	"github.com/employee-tracker-api/internal/service"
)

type AuthHandler struct {
	base
	authService  service.AuthService
	secureCookie bool
}

func NewAuthHandler(authService service.AuthService, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		base:         newBase(logger),
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// Login выдаёт токен в теле ответа и в HttpOnly cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("user logged in", slog.String("user", session.User.Username))

	h.respondJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User: dto.UserResponse{
			ID:       session.User.ID,
			Username: session.User.Username,
			Email:    session.User.Email,
		},
	})
}

// Logout удаляет cookie; сами токены не отзываются и истекают по сроку
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
