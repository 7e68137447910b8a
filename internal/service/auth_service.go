package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/employee-tracker-api/internal/auth"
	"github.com/employee-tracker-api/internal/domain"
	"github.com/employee-tracker-api/internal/repository"
)

const (
	minPasswordLength = 8
	// bcrypt не принимает пароли длиннее 72 байт
	maxPasswordLength = 72
)

// Session - результат успешного входа
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService определяет интерфейс входа и проверки токенов
type AuthService interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Authorize(ctx context.Context, token string) (*auth.Identity, error)
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	EnsureUser(ctx context.Context, username, email, password string) (bool, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   *auth.TokenManager

	// хеш для сравнения, когда пользователь не найден: оба исхода отказа занимают одинаковое время
	dummyHash string
}

// NewAuthService создаёт новый экземпляр сервиса
func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenManager) (AuthService, error) {
	dummyHash, err := hasher.Hash("employee-tracker-dummy-password")
	if err != nil {
		return nil, err
	}

	return &authService{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummyHash,
	}, nil
}

// Login проверяет пароль и выдаёт токен.
// Неизвестный пользователь и неверный пароль неразличимы для вызывающего: оба дают ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}

	ok, err := s.hasher.Verify(password, hash)
	if err != nil {
		return nil, err
	}
	if !ok || user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) Authorize(_ context.Context, token string) (*auth.Identity, error) {
	return s.tokens.Parse(token)
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username, err := requireText("username", username)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return nil, domain.NewValidationError("password", "must be at most 72 bytes")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// EnsureUser создаёт учётную запись, если её ещё нет. Существующий пароль не меняется.
func (s *authService) EnsureUser(ctx context.Context, username, email, password string) (bool, error) {
	_, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}

	if _, err := s.Register(ctx, username, email, password); err != nil {
		return false, err
	}
	return true, nil
}
