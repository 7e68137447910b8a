package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/employee-tracker-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "employee-tracker"

// Identity - пользователь, подтвердивший вход
type Identity struct {
	UserID   int64
	Username string
}

// Claims - содержимое токена сессии
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager выпускает и проверяет подписанные токены с ограниченным сроком жизни
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager создаёт менеджер токенов с HMAC-SHA256 подписью
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue выпускает токен для пользователя и возвращает момент его истечения
func (m *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)

	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Parse проверяет подпись и срок действия токена.
// Возвращает domain.ErrTokenExpired для просроченных и domain.ErrUnauthenticated для остальных отказов.
func (m *TokenManager) Parse(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthenticated
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrUnauthenticated
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, domain.ErrUnauthenticated
	}

	return &Identity{UserID: userID, Username: claims.Username}, nil
}
