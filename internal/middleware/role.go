package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/mmeshcher/garmenttrack/internal/model"
	"github.com/mmeshcher/garmenttrack/internal/repository"
)

// AccountFinder загружает учётную запись по email.
type AccountFinder interface {
	GetAccount(ctx context.Context, email string) (*model.Account, error)
}

// RoleAllowed сообщает, разрешена ли роль политикой allowed.
// Пустая политика разрешает любую известную роль; неизвестная роль не разрешена никогда.
func RoleAllowed(role model.Role, allowed []model.Role) bool {
	switch role {
	case model.RoleBuyer, model.RoleManager, model.RoleAdmin:
		return len(allowed) == 0 || slices.Contains(allowed, role)
	default:
		return false
	}
}

// RequireRole загружает учётную запись проверенного пользователя и пропускает запрос,
// только если её роль входит в roles. Запись перечитывается на каждый запрос,
// поэтому изменения роли вступают в силу сразу.
// Должен подключаться после AuthMiddleware.Middleware.
func RequireRole(finder AccountFinder, logger *zap.Logger, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := GetEmailFromContext(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			account, err := finder.GetAccount(r.Context(), email)
			if err != nil {
				if errors.Is(err, repository.ErrAccountNotFound) {
					writeMessage(w, http.StatusForbidden, msgForbidden)
					return
				}
				logger.Error("load account for authorization", zap.Error(err), zap.String("email", email))
				writeMessage(w, http.StatusInternalServerError, msgInternal)
				return
			}

			if !RoleAllowed(account.Role, roles) {
				writeMessage(w, http.StatusForbidden, msgForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// GetAccountFromContext извлекает учётную запись, загруженную RequireRole.
func GetAccountFromContext(ctx context.Context) (*model.Account, bool) {
	account, ok := ctx.Value(accountKey).(*model.Account)
	return account, ok && account != nil
}

// WithAccount возвращает контекст с учётной записью пользователя.
func WithAccount(ctx context.Context, account *model.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}
