package service

import (
	"context"
	"strings"

	"github.com/mmeshcher/garmenttrack/internal/model"
	"github.com/mmeshcher/garmenttrack/internal/validation"
)

// AccountChange описывает запрос администратора на изменение учётной записи.
type AccountChange struct {
	Role            *string
	Status          *string
	SuspendReason   string
	SuspendFeedback string
}

// RegisterAccount создаёт учётную запись при первой регистрации и возвращает её.
// Если email уже занят, возвращает nil и false, ничего не меняя.
func (s *Service) RegisterAccount(ctx context.Context, email, name, role string) (*model.Account, bool, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if email == "" || name == "" {
		return nil, false, invalid("email and name are required")
	}
	if !validation.IsValidEmail(email) {
		return nil, false, invalid("malformed email %q", email)
	}

	a := &model.Account{
		Email:     email,
		Name:      name,
		Role:      model.SignupRole(role),
		Status:    model.AccountStatusPending,
		CreatedAt: s.now(),
	}

	created, err := s.repo.CreateAccount(ctx, a)
	if err != nil {
		return nil, false, err
	}
	if !created {
		return nil, false, nil
	}

	return a, true, nil
}

// GetAccount возвращает учётную запись по email.
func (s *Service) GetAccount(ctx context.Context, email string) (*model.Account, error) {
	return s.repo.GetAccountByEmail(ctx, email)
}

// ListAccounts возвращает все учётные записи, начиная с самых новых.
func (s *Service) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// UpdateAccount меняет роль и/или статус учётной записи.
func (s *Service) UpdateAccount(ctx context.Context, id string, ch AccountChange) (*model.Account, error) {
	if ch.Role == nil && ch.Status == nil {
		return nil, invalid("role or status is required")
	}

	var upd model.AccountUpdate

	if ch.Role != nil {
		role, ok := model.ParseRole(*ch.Role)
		if !ok {
			return nil, invalid("unknown role %q", *ch.Role)
		}
		upd.Role = &role
	}

	if ch.Status != nil {
		status, ok := model.ParseAccountStatus(*ch.Status)
		if !ok {
			return nil, invalid("unknown status %q", *ch.Status)
		}
		upd.Status = &status

		if status == model.AccountStatusSuspended {
			upd.SuspendReason = ch.SuspendReason
			upd.SuspendFeedback = ch.SuspendFeedback
		}
	}

	return s.repo.UpdateAccount(ctx, id, upd)
}
