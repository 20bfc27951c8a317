package service

import (
	"context"
	"strings"

	"github.com/mmeshcher/garmenttrack/internal/model"
	"github.com/mmeshcher/garmenttrack/internal/validation"
)

// CanActFor сообщает, может ли учётная запись caller работать с данными покупателя email.
// Администратор может работать с любыми данными, остальные только со своими.
func CanActFor(caller *model.Account, email string) bool {
	if caller == nil {
		return false
	}

	switch caller.Role {
	case model.RoleAdmin:
		return true
	case model.RoleBuyer, model.RoleManager:
		return caller.Email == email
	default:
		return false
	}
}

// CreateOrder сохраняет заказ от имени caller и возвращает его идентификатор.
// Права проверяются до содержимого заказа: заблокированные учётные записи заказы не оформляют,
// заказ на чужой email может оформить только администратор.
func (s *Service) CreateOrder(ctx context.Context, caller *model.Account, o model.Order) (string, error) {
	o.ID = ""
	o.ProductID = strings.TrimSpace(o.ProductID)
	o.Email = strings.TrimSpace(o.Email)
	o.FirstName = strings.TrimSpace(o.FirstName)
	o.LastName = strings.TrimSpace(o.LastName)

	if caller == nil || caller.Status == model.AccountStatusSuspended {
		return "", ErrForbidden
	}
	if o.Email != "" && !CanActFor(caller, o.Email) {
		return "", ErrForbidden
	}

	if missing := validation.MissingOrderFields(o); len(missing) > 0 {
		return "", invalid("missing required fields: %s", strings.Join(missing, ", "))
	}
	if o.Quantity > model.MaxOrderQuantity {
		return "", invalid("quantity must not exceed %d", model.MaxOrderQuantity)
	}

	if o.Status == "" {
		o.Status = model.OrderStatusPending
	}
	if _, ok := model.ParseOrderStatus(string(o.Status)); !ok {
		return "", invalid("unknown order status %q", o.Status)
	}
	if o.UnitPrice != nil {
		if err := validatePrice(*o.UnitPrice); err != nil {
			return "", err
		}
	}

	o.CreatedAt = s.now()

	return s.repo.CreateOrder(ctx, &o)
}

// OrdersForEmail возвращает заказы покупателя email, если caller имеет на это право.
func (s *Service) OrdersForEmail(ctx context.Context, caller *model.Account, email string) ([]model.Order, error) {
	if !CanActFor(caller, email) {
		return nil, ErrForbidden
	}
	return s.repo.GetOrdersByEmail(ctx, email)
}

// ListOrders возвращает все заказы с необязательным фильтром по статусу.
func (s *Service) ListOrders(ctx context.Context, status string) ([]model.Order, error) {
	if status == "" {
		return s.repo.ListOrders(ctx, "")
	}

	st, ok := model.ParseOrderStatus(status)
	if !ok {
		return nil, invalid("unknown order status %q", status)
	}

	return s.repo.ListOrders(ctx, st)
}

// GetOrder возвращает заказ по идентификатору.
func (s *Service) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	return s.repo.GetOrder(ctx, id)
}
