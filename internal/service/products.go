package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/garmenttrack/internal/model"
	"github.com/mmeshcher/garmenttrack/internal/repository"
)

// NormalizePaymentOptions убирает пустые и повторяющиеся способы оплаты, сохраняя порядок.
// Результат никогда не равен nil.
func NormalizePaymentOptions(options []string) []string {
	res := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))

	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		res = append(res, o)
	}

	return res
}

func validatePrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return invalid("price must not be negative")
	case !model.PriceFits(price):
		return invalid("price %s must be below %s with at most %d decimal places", price, model.MaxPrice, model.PriceScale)
	}
	return nil
}

// ListProducts возвращает весь каталог.
func (s *Service) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListProducts(ctx)
}

// ListFeaturedProducts возвращает товары для главной страницы, не более model.FeaturedLimit.
func (s *Service) ListFeaturedProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListFeaturedProducts(ctx, model.FeaturedLimit)
}

// ListManagerProducts возвращает товары, добавленные менеджерами.
func (s *Service) ListManagerProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListProductsByCreator(ctx, model.CreatedByManager)
}

// GetProduct возвращает товар по идентификатору.
func (s *Service) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// CreateProduct сохраняет новый товар и возвращает его идентификатор.
func (s *Service) CreateProduct(ctx context.Context, p model.Product) (string, error) {
	p.ID = ""
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "", invalid("name is required")
	}
	if err := validatePrice(p.Price); err != nil {
		return "", err
	}

	p.PaymentOptions = NormalizePaymentOptions(p.PaymentOptions)
	if p.CreatedBy == "" {
		p.CreatedBy = model.CreatedByManager
	}
	p.CreatedAt = s.now()

	return s.repo.CreateProduct(ctx, &p)
}

// UpdateProduct заменяет изменяемые поля товара и возвращает обновлённую запись.
func (s *Service) UpdateProduct(ctx context.Context, id string, ch model.ProductChanges) (*model.Product, error) {
	ch.Name = strings.TrimSpace(ch.Name)
	if ch.Name == "" {
		return nil, invalid("name is required")
	}
	if err := validatePrice(ch.Price); err != nil {
		return nil, err
	}

	ch.PaymentOptions = NormalizePaymentOptions(ch.PaymentOptions)

	return s.repo.UpdateProduct(ctx, id, ch)
}

// DeleteProduct удаляет товар и возвращает число удалённых записей.
func (s *Service) DeleteProduct(ctx context.Context, id string) (int64, error) {
	n, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, repository.ErrProductNotFound
	}
	return n, nil
}

// SetShowOnHome выставляет признак показа товара на главной странице.
func (s *Service) SetShowOnHome(ctx context.Context, id string, show bool) (matched, modified int64, err error) {
	return s.repo.SetProductShowOnHome(ctx, id, show)
}
