// Package service реализует бизнес-логику учёта учётных записей, товаров и заказов.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmeshcher/garmenttrack/internal/model"
)

var (
	// ErrInvalidInput возвращается, если входные данные не прошли проверку.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden возвращается, если у вызывающего недостаточно прав на операцию.
	ErrForbidden = errors.New("forbidden")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	Ping(ctx context.Context) error

	CreateAccount(ctx context.Context, a *model.Account) (bool, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	UpdateAccount(ctx context.Context, id string, upd model.AccountUpdate) (*model.Account, error)

	ListProducts(ctx context.Context) ([]model.Product, error)
	ListFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error)
	ListProductsByCreator(ctx context.Context, createdBy string) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) (string, error)
	UpdateProduct(ctx context.Context, id string, ch model.ProductChanges) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) (int64, error)
	SetProductShowOnHome(ctx context.Context, id string, show bool) (int64, int64, error)

	CreateOrder(ctx context.Context, o *model.Order) (string, error)
	GetOrdersByEmail(ctx context.Context, email string) ([]model.Order, error)
	ListOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
}

// Service содержит бизнес-логику сервиса.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Ping проверяет доступность хранилища.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
