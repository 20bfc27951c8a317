// Package model содержит доменные сущности сервиса учёта заказов одежды.
package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Цены и суммы в JSON кодируются числами, а не строками.
	decimal.MarshalJSONWithoutQuotes = true
}

// Role описывает уровень полномочий учётной записи.
type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole возвращает роль по её строковому представлению.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBuyer, RoleManager, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// SignupRole возвращает роль, допустимую при самостоятельной регистрации.
// Всё, кроме manager, становится buyer.
func SignupRole(requested string) Role {
	if Role(requested) == RoleManager {
		return RoleManager
	}
	return RoleBuyer
}

// AccountStatus описывает состояние жизненного цикла учётной записи.
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "pending"
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

// ParseAccountStatus возвращает статус учётной записи по строке.
func ParseAccountStatus(s string) (AccountStatus, bool) {
	switch AccountStatus(s) {
	case AccountStatusPending, AccountStatusActive, AccountStatusSuspended:
		return AccountStatus(s), true
	default:
		return "", false
	}
}

// Account представляет учётную запись пользователя.
type Account struct {
	ID              string        `json:"_id"`
	Email           string        `json:"email"`
	Name            string        `json:"name"`
	Role            Role          `json:"role"`
	Status          AccountStatus `json:"status"`
	SuspendReason   string        `json:"suspendReason"`
	SuspendFeedback string        `json:"suspendFeedback"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       *time.Time    `json:"updatedAt,omitempty"`
}

// AccountUpdate описывает частичное изменение учётной записи администратором.
// Nil-поля не изменяются.
type AccountUpdate struct {
	Role            *Role
	Status          *AccountStatus
	SuspendReason   string
	SuspendFeedback string
}

// Product описывает товар каталога.
type Product struct {
	ID                string          `json:"_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Category          string          `json:"category"`
	PaymentOptions    []string        `json:"paymentOptions"`
	Images            []string        `json:"images,omitempty"`
	AvailableQuantity int             `json:"availableQuantity,omitempty"`
	MinimumOrder      int             `json:"minimumOrder,omitempty"`
	ShowOnHome        bool            `json:"showOnHome"`
	CreatedBy         string          `json:"createdBy,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ProductChanges содержит поля товара, которые заменяются при обновлении.
type ProductChanges struct {
	Name           string
	Price          decimal.Decimal
	Category       string
	PaymentOptions []string
}

// CreatedByManager — атрибуция товаров, добавленных менеджером.
const CreatedByManager = "Manager"

// FeaturedLimit — максимальное число товаров на главной странице.
const FeaturedLimit = 6

// Границы денежных сумм и количества совпадают с колонками NUMERIC(12,2) и INTEGER.
const (
	PriceScale       = 2
	MaxOrderQuantity = math.MaxInt32
)

// MaxPrice — наименьшая сумма, которая уже не помещается в NUMERIC(12,2).
var MaxPrice = decimal.New(1, 10)

// PriceFits сообщает, что сумма неотрицательна, имеет не больше PriceScale знаков
// после запятой и меньше MaxPrice.
func PriceFits(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThan(MaxPrice) && p.Equal(p.Round(PriceScale))
}

// OrderStatus описывает состояние заказа.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusRejected OrderStatus = "rejected"
)

// ParseOrderStatus возвращает статус заказа по строке.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusApproved, OrderStatusRejected:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// Order описывает заказ покупателя.
type Order struct {
	ID            string           `json:"_id"`
	ProductID     string           `json:"productId"`
	ProductName   string           `json:"productName,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unitPrice,omitempty"`
	Email         string           `json:"email"`
	FirstName     string           `json:"firstName"`
	LastName      string           `json:"lastName"`
	Quantity      int              `json:"quantity"`
	Status        OrderStatus      `json:"status"`
	Address       string           `json:"address,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}
