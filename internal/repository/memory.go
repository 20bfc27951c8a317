package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/garmenttrack/internal/model"
)

// storedPrice приводит сумму к виду, в котором её хранит колонка NUMERIC(12,2).
func storedPrice(p decimal.Decimal) (decimal.Decimal, error) {
	p = p.Round(model.PriceScale)
	if p.IsNegative() || !p.LessThan(model.MaxPrice) {
		return p, ErrConstraintViolation
	}
	return p, nil
}

// MemoryRepository хранит данные в памяти процесса. Используется для локального запуска
// без БД и в тестах; соблюдает те же ограничения, что и PostgresRepository.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts []model.Account
	products []model.Product
	orders   []model.Order
	now      func() time.Time
}

// NewMemoryRepository создаёт пустое хранилище в памяти.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

// Close ничего не делает.
func (m *MemoryRepository) Close() error { return nil }

// Ping всегда успешен.
func (m *MemoryRepository) Ping(context.Context) error { return nil }

// CreateAccount сохраняет учётную запись, если email ещё не занят.
func (m *MemoryRepository) CreateAccount(_ context.Context, a *model.Account) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return false, nil
		}
	}

	if a.ID == "" {
		a.ID = newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = m.now()
	}
	m.accounts = append(m.accounts, *a)

	return true, nil
}

// GetAccountByEmail возвращает учётную запись по email.
func (m *MemoryRepository) GetAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, ErrAccountNotFound
}

// ListAccounts возвращает все учётные записи, начиная с самых новых.
func (m *MemoryRepository) ListAccounts(context.Context) ([]model.Account, error) {
	m.mu.RLock()
	res := slices.Clone(m.accounts)
	m.mu.RUnlock()

	slices.SortStableFunc(res, func(a, b model.Account) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return res, nil
}

// UpdateAccount применяет частичное изменение роли и статуса.
func (m *MemoryRepository) UpdateAccount(_ context.Context, id string, upd model.AccountUpdate) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.accounts, func(a model.Account) bool { return a.ID == id })
	if i < 0 {
		return nil, ErrAccountNotFound
	}

	a := &m.accounts[i]
	if upd.Role != nil {
		a.Role = *upd.Role
	}
	if upd.Status != nil {
		a.Status = *upd.Status
		if a.Status == model.AccountStatusSuspended {
			a.SuspendReason = upd.SuspendReason
			a.SuspendFeedback = upd.SuspendFeedback
		}
	}
	if a.Status != model.AccountStatusSuspended {
		a.SuspendReason = ""
		a.SuspendFeedback = ""
	}

	now := m.now()
	a.UpdatedAt = &now

	res := *a
	return &res, nil
}

// ListProducts возвращает все товары, начиная с самых новых.
func (m *MemoryRepository) ListProducts(context.Context) ([]model.Product, error) {
	return m.filterProducts(func(model.Product) bool { return true }, 0), nil
}

// ListFeaturedProducts возвращает не более limit товаров для главной страницы.
func (m *MemoryRepository) ListFeaturedProducts(_ context.Context, limit int) ([]model.Product, error) {
	return m.filterProducts(func(p model.Product) bool { return p.ShowOnHome }, limit), nil
}

// ListProductsByCreator возвращает товары с указанной атрибуцией автора.
func (m *MemoryRepository) ListProductsByCreator(_ context.Context, createdBy string) ([]model.Product, error) {
	return m.filterProducts(func(p model.Product) bool { return p.CreatedBy == createdBy }, 0), nil
}

func (m *MemoryRepository) filterProducts(keep func(model.Product) bool, limit int) []model.Product {
	m.mu.RLock()
	var res []model.Product
	for _, p := range m.products {
		if keep(p) {
			res = append(res, p)
		}
	}
	m.mu.RUnlock()

	slices.SortStableFunc(res, func(a, b model.Product) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}

// GetProduct возвращает товар по идентификатору.
func (m *MemoryRepository) GetProduct(_ context.Context, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

// CreateProduct сохраняет товар и возвращает его идентификатор.
func (m *MemoryRepository) CreateProduct(_ context.Context, p *model.Product) (string, error) {
	price, err := storedPrice(p.Price)
	if err != nil {
		return "", err
	}
	p.Price = price

	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.now()
	}
	m.products = append(m.products, *p)

	return p.ID, nil
}

// UpdateProduct заменяет изменяемые поля товара.
func (m *MemoryRepository) UpdateProduct(_ context.Context, id string, ch model.ProductChanges) (*model.Product, error) {
	price, err := storedPrice(ch.Price)
	if err != nil {
		return nil, err
	}
	ch.Price = price

	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.products, func(p model.Product) bool { return p.ID == id })
	if i < 0 {
		return nil, ErrProductNotFound
	}

	p := &m.products[i]
	p.Name = ch.Name
	p.Price = ch.Price
	p.Category = ch.Category
	p.PaymentOptions = slices.Clone(ch.PaymentOptions)
	if p.PaymentOptions == nil {
		p.PaymentOptions = []string{}
	}

	res := *p
	return &res, nil
}

// DeleteProduct удаляет товар и возвращает число удалённых записей.
func (m *MemoryRepository) DeleteProduct(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.products)
	m.products = slices.DeleteFunc(m.products, func(p model.Product) bool { return p.ID == id })

	return int64(before - len(m.products)), nil
}

// SetProductShowOnHome выставляет признак показа товара на главной странице.
func (m *MemoryRepository) SetProductShowOnHome(_ context.Context, id string, show bool) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.products, func(p model.Product) bool { return p.ID == id })
	if i < 0 {
		return 0, 0, ErrProductNotFound
	}

	if m.products[i].ShowOnHome == show {
		return 1, 0, nil
	}
	m.products[i].ShowOnHome = show

	return 1, 1, nil
}

// CreateOrder сохраняет заказ и возвращает его идентификатор.
func (m *MemoryRepository) CreateOrder(_ context.Context, o *model.Order) (string, error) {
	if o.Quantity <= 0 || o.Quantity > model.MaxOrderQuantity {
		return "", ErrConstraintViolation
	}
	if o.UnitPrice != nil {
		price, err := storedPrice(*o.UnitPrice)
		if err != nil {
			return "", err
		}
		o.UnitPrice = &price
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if o.ID == "" {
		o.ID = newID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = m.now()
	}
	m.orders = append(m.orders, *o)

	return o.ID, nil
}

// GetOrdersByEmail возвращает заказы покупателя.
func (m *MemoryRepository) GetOrdersByEmail(_ context.Context, email string) ([]model.Order, error) {
	return m.filterOrders(func(o model.Order) bool { return o.Email == email }), nil
}

// ListOrders возвращает все заказы или только заказы со статусом status.
func (m *MemoryRepository) ListOrders(_ context.Context, status model.OrderStatus) ([]model.Order, error) {
	return m.filterOrders(func(o model.Order) bool { return status == "" || o.Status == status }), nil
}

func (m *MemoryRepository) filterOrders(keep func(model.Order) bool) []model.Order {
	m.mu.RLock()
	var res []model.Order
	for _, o := range m.orders {
		if keep(o) {
			res = append(res, o)
		}
	}
	m.mu.RUnlock()

	slices.SortStableFunc(res, func(a, b model.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return res
}

// GetOrder возвращает заказ по идентификатору.
func (m *MemoryRepository) GetOrder(_ context.Context, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range m.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}
