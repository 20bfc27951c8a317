// Package middleware содержит HTTP middleware сервиса: аутентификацию по сессионному cookie,
// проверку ролей, сжатие и журналирование запросов.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	emailKey   contextKey = "email"
	accountKey contextKey = "account"
)

const (
	// AuthCookieName — имя cookie с сессионным токеном.
	AuthCookieName = "token"
	// AuthTokenTTL — срок действия сессионного токена.
	AuthTokenTTL = 24 * time.Hour
)

const (
	msgUnauthorized = "Unauthorized access"
	msgForbidden    = "Forbidden access"
	msgInternal     = "Internal server error"
)

var (
	// ErrEmptySecret возвращается NewAuthMiddleware при пустом ключе подписи.
	ErrEmptySecret = errors.New("empty token signing secret")

	errEmptyEmail = errors.New("token has no email claim")
)

// CookieConfig задаёт атрибуты сессионного cookie.
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware выпускает и проверяет подписанные сессионные токены в cookie.
type AuthMiddleware struct {
	secretKey []byte
	cookie    CookieConfig
	now       func() time.Time
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным секретным ключом.
// Пустой ключ не допускается: токены, подписанные им, мог бы выпустить кто угодно.
func NewAuthMiddleware(secret string, cookie CookieConfig) (*AuthMiddleware, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	if cookie.SameSite == 0 {
		cookie.SameSite = http.SameSiteLaxMode
	}

	return &AuthMiddleware{
		secretKey: []byte(secret),
		cookie:    cookie,
		now:       time.Now,
	}, nil
}

// IssueToken подписывает токен с email и сроком действия AuthTokenTTL.
func (a *AuthMiddleware) IssueToken(email string) (string, error) {
	now := a.now()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AuthTokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken проверяет подпись и срок действия токена и возвращает email.
func (a *AuthMiddleware) ParseToken(raw string) (string, error) {
	var claims sessionClaims

	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return a.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", err
	}

	if claims.Email == "" {
		return "", errEmptyEmail
	}

	return claims.Email, nil
}

// SetAuthCookie выпускает токен для email и устанавливает его в cookie ответа.
func (a *AuthMiddleware) SetAuthCookie(w http.ResponseWriter, email string) error {
	token, err := a.IssueToken(email)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  a.now().Add(AuthTokenTTL),
		HttpOnly: true,
		Secure:   a.cookie.Secure,
		SameSite: a.cookie.SameSite,
	})

	return nil
}

// ClearAuthCookie удаляет сессионный cookie.
func (a *AuthMiddleware) ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cookie.Secure,
		SameSite: a.cookie.SameSite,
	})
}

// Middleware проверяет сессионный cookie и добавляет email пользователя в контекст запроса.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AuthCookieName)
		if err != nil || cookie.Value == "" {
			writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		email, err := a.ParseToken(cookie.Value)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), emailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetEmailFromContext извлекает email проверенного пользователя из контекста запроса.
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok && email != ""
}

// WithEmail возвращает контекст с email проверенного пользователя.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
