package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/mmeshcher/garmenttrack/internal/middleware"
	"github.com/mmeshcher/garmenttrack/internal/model"
	"github.com/mmeshcher/garmenttrack/internal/repository"
	"github.com/mmeshcher/garmenttrack/internal/service"
)

type testEnv struct {
	router http.Handler
	repo   *repository.MemoryRepository
	auth   *middleware.AuthMiddleware
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := repository.NewMemoryRepository()
	return newTestEnvWithService(t, service.NewService(repo), repo)
}

func newTestEnvWithService(t *testing.T, svc Service, repo *repository.MemoryRepository) *testEnv {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	auth, err := middleware.NewAuthMiddleware("test-secret", middleware.CookieConfig{})
	if err != nil {
		t.Fatalf("new auth middleware: %v", err)
	}
	h := NewHandler(svc, logger, auth)

	return &testEnv{
		router: h.SetupRouter("http://localhost:5173"),
		repo:   repo,
		auth:   auth,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) cookieFor(t *testing.T, email string) *http.Cookie {
	t.Helper()

	token, err := e.auth.IssueToken(email)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return &http.Cookie{Name: middleware.AuthCookieName, Value: token}
}

// register создаёт учётную запись через API и при необходимости выдаёт ей роль напрямую в хранилище:
// регистрация сама по себе администратора не создаёт.
func (e *testEnv) register(t *testing.T, email string, role model.Role) *http.Cookie {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/users", map[string]string{"email": email, "name": "Test", "role": string(role)}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %s", email, rec.Code, rec.Body)
	}

	if role == model.RoleAdmin {
		a, err := e.repo.GetAccountByEmail(context.Background(), email)
		if err != nil {
			t.Fatalf("get account: %v", err)
		}
		if _, err := e.repo.UpdateAccount(context.Background(), a.ID, model.AccountUpdate{Role: &role}); err != nil {
			t.Fatalf("promote account: %v", err)
		}
	}

	return e.cookieFor(t, email)
}

func (e *testEnv) createProduct(t *testing.T, cookie *http.Cookie, body map[string]any) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/productsData", body, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp insertResponse
	decodeBody(t, rec, &resp)
	if !resp.Acknowledged || resp.InsertedID == "" {
		t.Fatalf("unexpected insert response: %+v", resp)
	}
	return resp.InsertedID
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func TestRoot(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "Hello this is a server" {
		t.Fatalf("body = %q", got)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestUnknownRoute_JSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/nowhere", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q, want application/json", ct)
	}
}

func TestIssueToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/jwt", map[string]string{"email": "a@x.com"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("token cookie not set")
	}
	if !cookie.HttpOnly {
		t.Fatal("token cookie must be HttpOnly")
	}

	email, err := env.auth.ParseToken(cookie.Value)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if email != "a@x.com" {
		t.Fatalf("email = %q, want a@x.com", email)
	}

	rec = env.do(t, http.MethodPost, "/jwt", map[string]string{"email": "nope"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid email: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/logout", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired token cookie, got %+v", cookies)
	}
}

func TestRegisterUser_Twice(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]string{"email": "a@x.com", "name": "Ann"}

	rec := env.do(t, http.MethodPost, "/users", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first: status = %d, want %d", rec.Code, http.StatusCreated)
	}

	rec = env.do(t, http.MethodPost, "/users", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second: status = %d, want %d", rec.Code, http.StatusOK)
	}

	var msg messageResponse
	decodeBody(t, rec, &msg)
	if msg.Message != "User already exists" {
		t.Fatalf("message = %q", msg.Message)
	}

	accounts, err := env.repo.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("accounts = %d, want 1", len(accounts))
	}
}

func TestRegisterUser_BadInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", "{"},
		{"missing name", map[string]string{"email": "a@x.com"}},
		{"bad email", map[string]string{"email": "ann", "name": "Ann"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/users", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", model.RoleBuyer)

	rec := env.do(t, http.MethodGet, "/users/a@x.com", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got map[string]any
	decodeBody(t, rec, &got)
	if got["email"] != "a@x.com" || got["role"] != "buyer" || got["status"] != "pending" {
		t.Fatalf("unexpected account: %v", got)
	}
	if got["_id"] == "" {
		t.Fatal("account id is empty")
	}

	rec = env.do(t, http.MethodGet, "/users/ghost@x.com", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAdminRoute_Access(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "root@x.com", model.RoleAdmin)
	buyer := env.register(t, "a@x.com", model.RoleBuyer)

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   int
	}{
		{"no credential", nil, http.StatusUnauthorized},
		{"garbage credential", &http.Cookie{Name: middleware.AuthCookieName, Value: "garbage"}, http.StatusUnauthorized},
		{"unknown account", env.cookieFor(t, "ghost@x.com"), http.StatusForbidden},
		{"buyer", buyer, http.StatusForbidden},
		{"admin", admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/users", nil, tt.cookie)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "root@x.com", model.RoleAdmin)
	env.register(t, "a@x.com", model.RoleBuyer)

	a, err := env.repo.GetAccountByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}

	rec := env.do(t, http.MethodPatch, "/users/"+a.ID, map[string]string{
		"status":        "suspended",
		"suspendReason": "fraud",
	}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("suspend: status = %d, body = %s", rec.Code, rec.Body)
	}

	a, _ = env.repo.GetAccountByEmail(context.Background(), "a@x.com")
	if a.Status != model.AccountStatusSuspended || a.SuspendReason != "fraud" {
		t.Fatalf("unexpected account after suspend: %+v", a)
	}

	rec = env.do(t, http.MethodPatch, "/users/"+a.ID, map[string]string{"status": "active"}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("activate: status = %d", rec.Code)
	}

	a, _ = env.repo.GetAccountByEmail(context.Background(), "a@x.com")
	if a.SuspendReason != "" || a.SuspendFeedback != "" {
		t.Fatalf("suspension fields not cleared: %+v", a)
	}

	rec = env.do(t, http.MethodPatch, "/users/"+a.ID, map[string]string{"role": "overlord"}, admin)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown role: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = env.do(t, http.MethodPatch, "/users/missing", map[string]string{"role": "admin"}, admin)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing account: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSuspendedAccount_CannotOrder(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.register(t, "a@x.com", model.RoleBuyer)

	a, _ := env.repo.GetAccountByEmail(context.Background(), "a@x.com")
	suspended := model.AccountStatusSuspended
	if _, err := env.repo.UpdateAccount(context.Background(), a.ID, model.AccountUpdate{Status: &suspended}); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/orders", map[string]any{
		"productId": "p-1", "email": "a@x.com", "firstName": "Ann", "lastName": "Lee", "quantity": 1,
	}, buyer)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestProducts_AccessAndLifecycle(t *testing.T) {
	env := newTestEnv(t)
	manager := env.register(t, "m@x.com", model.RoleManager)
	admin := env.register(t, "root@x.com", model.RoleAdmin)
	buyer := env.register(t, "a@x.com", model.RoleBuyer)

	body := map[string]any{"name": "Denim jacket", "price": 79.99, "category": "jackets", "paymentOptions": "Cash on Delivery"}

	if rec := env.do(t, http.MethodPost, "/productsData", body, buyer); rec.Code != http.StatusForbidden {
		t.Fatalf("buyer create: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if rec := env.do(t, http.MethodPost, "/productsData", body, admin); rec.Code != http.StatusForbidden {
		t.Fatalf("admin create: status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	id := env.createProduct(t, manager, body)

	rec := env.do(t, http.MethodGet, "/productsData/"+id, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}
	var got map[string]any
	decodeBody(t, rec, &got)
	if got["_id"] != id || got["name"] != "Denim jacket" || got["category"] != "jackets" {
		t.Fatalf("unexpected product: %v", got)
	}
	options, ok := got["paymentOptions"].([]any)
	if !ok || len(options) != 1 || options[0] != "Cash on Delivery" {
		t.Fatalf("paymentOptions = %v, want [Cash on Delivery]", got["paymentOptions"])
	}
	if got["createdBy"] != model.CreatedByManager {
		t.Fatalf("createdBy = %v", got["createdBy"])
	}
	if price, ok := got["price"].(float64); !ok || price != 79.99 {
		t.Fatalf("price = %#v, want JSON number 79.99", got["price"])
	}

	rec = env.do(t, http.MethodPatch, "/productsData/"+id, map[string]any{
		"name": "Denim jacket v2", "price": "85.00", "category": "jackets", "paymentOptions": []string{"Card", "Card"},
	}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", rec.Code, rec.Body)
	}
	decodeBody(t, rec, &got)
	if got["name"] != "Denim jacket v2" {
		t.Fatalf("name = %v", got["name"])
	}
	if price, ok := got["price"].(float64); !ok || price != 85 {
		t.Fatalf("price = %#v, want JSON number 85", got["price"])
	}
	if options, _ := got["paymentOptions"].([]any); len(options) != 1 {
		t.Fatalf("paymentOptions = %v, want deduplicated", got["paymentOptions"])
	}

	rec = env.do(t, http.MethodPatch, "/productsData/"+id, map[string]any{"name": "No price"}, manager)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("update without price: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	if rec := env.do(t, http.MethodPatch, "/productsData/showHome/"+id, map[string]bool{"showOnHome": true}, manager); rec.Code != http.StatusForbidden {
		t.Fatalf("manager showHome: status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec = env.do(t, http.MethodPatch, "/productsData/showHome/"+id, map[string]bool{"showOnHome": true}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("showHome: status = %d", rec.Code)
	}
	var upd updateResponse
	decodeBody(t, rec, &upd)
	if upd.MatchedCount != 1 || upd.ModifiedCount != 1 {
		t.Fatalf("unexpected update response: %+v", upd)
	}

	rec = env.do(t, http.MethodDelete, "/productsData/"+id, nil, manager)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	var del deleteResponse
	decodeBody(t, rec, &del)
	if !del.Success || del.DeletedCount != 1 {
		t.Fatalf("unexpected delete response: %+v", del)
	}

	if rec := env.do(t, http.MethodDelete, "/productsData/"+id, nil, manager); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	manager := env.register(t, "m@x.com", model.RoleManager)

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", "{"},
		{"no price", map[string]any{"name": "Tee"}},
		{"negative price", map[string]any{"name": "Tee", "price": -1}},
		{"no name", map[string]any{"price": 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/productsData", tt.body, manager)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}

	products, _ := env.repo.ListProducts(context.Background())
	if len(products) != 0 {
		t.Fatalf("products stored = %d, want 0", len(products))
	}
}

func TestGetProduct_Unknown(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/productsData/does-not-exist", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var msg messageResponse
	decodeBody(t, rec, &msg)
	if msg.Message != msgProductNotFound {
		t.Fatalf("message = %q", msg.Message)
	}
}

func TestFeaturedProducts_Capped(t *testing.T) {
	env := newTestEnv(t)
	manager := env.register(t, "m@x.com", model.RoleManager)

	for i := 0; i < 8; i++ {
		env.createProduct(t, manager, map[string]any{"name": "Tee", "price": 10, "showOnHome": true})
	}
	env.createProduct(t, manager, map[string]any{"name": "Hidden", "price": 10})

	rec := env.do(t, http.MethodGet, "/productsData/limit", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got []map[string]any
	decodeBody(t, rec, &got)
	if len(got) > model.FeaturedLimit {
		t.Fatalf("featured = %d, want at most %d", len(got), model.FeaturedLimit)
	}
	for _, p := range got {
		if p["showOnHome"] != true {
			t.Fatalf("non-featured product returned: %v", p)
		}
	}

	rec = env.do(t, http.MethodGet, "/productsData/manager", nil, nil)
	decodeBody(t, rec, &got)
	if len(got) != 9 {
		t.Fatalf("manager products = %d, want 9", len(got))
	}
}

func TestListProducts_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/productsData", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := bytes.TrimSpace(rec.Body.Bytes()); string(got) != "[]" {
		t.Fatalf("body = %s, want []", got)
	}
}

func TestCreateOrder_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.register(t, "a@x.com", model.RoleBuyer)

	rec := env.do(t, http.MethodPost, "/orders", map[string]any{
		"productId": "p-1", "email": "a@x.com", "firstName": "Ann",
	}, buyer)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	orders, _ := env.repo.ListOrders(context.Background(), "")
	if len(orders) != 0 {
		t.Fatalf("orders stored = %d, want 0", len(orders))
	}
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/orders", map[string]any{
		"productId": "p-1", "email": "a@x.com", "firstName": "Ann", "lastName": "Lee", "quantity": 1,
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCreateOrder_ForSomeoneElse(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.register(t, "a@x.com", model.RoleBuyer)
	admin := env.register(t, "root@x.com", model.RoleAdmin)

	body := map[string]any{
		"productId": "p-1", "email": "b@x.com", "firstName": "Bob", "lastName": "Ray", "quantity": "3",
	}

	if rec := env.do(t, http.MethodPost, "/orders", body, buyer); rec.Code != http.StatusForbidden {
		t.Fatalf("buyer: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if rec := env.do(t, http.MethodPost, "/orders", body, admin); rec.Code != http.StatusCreated {
		t.Fatalf("admin: status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestOrders_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	manager := env.register(t, "m@x.com", model.RoleManager)

	rec := env.do(t, http.MethodPost, "/users", map[string]string{"email": "a@x.com", "name": "Ann"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/jwt", map[string]string{"email": "a@x.com"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("jwt: status = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no cookie issued")
	}
	buyer := cookies[0]

	productID := env.createProduct(t, manager, map[string]any{"name": "Linen shirt", "price": "24.50"})

	rec = env.do(t, http.MethodPost, "/orders", map[string]any{
		"productId": productID, "productName": "Linen shirt", "unitPrice": 24.5,
		"email": "a@x.com", "firstName": "Ann", "lastName": "Lee", "quantity": 2,
	}, buyer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("order: status = %d, body = %s", rec.Code, rec.Body)
	}

	var created orderCreatedResponse
	decodeBody(t, rec, &created)
	if !created.Success || created.InsertedID == "" || created.Message != "Order placed successfully" {
		t.Fatalf("unexpected order response: %+v", created)
	}

	rec = env.do(t, http.MethodGet, "/orders/a@x.com", nil, buyer)
	if rec.Code != http.StatusOK {
		t.Fatalf("orders: status = %d", rec.Code)
	}

	var orders []map[string]any
	decodeBody(t, rec, &orders)
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	if orders[0]["quantity"] != float64(2) || orders[0]["productId"] != productID || orders[0]["status"] != "pending" {
		t.Fatalf("unexpected order: %v", orders[0])
	}

	if rec := env.do(t, http.MethodGet, "/orders/"+created.InsertedID, nil, buyer); rec.Code != http.StatusForbidden {
		t.Fatalf("order by id as buyer: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if rec := env.do(t, http.MethodGet, "/orders/b@x.com", nil, buyer); rec.Code != http.StatusForbidden {
		t.Fatalf("someone else's orders: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestListOrders_AdminFilter(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "root@x.com", model.RoleAdmin)
	buyer := env.register(t, "a@x.com", model.RoleBuyer)

	for _, status := range []string{"pending", "approved"} {
		rec := env.do(t, http.MethodPost, "/orders", map[string]any{
			"productId": "p-1", "email": "a@x.com", "firstName": "Ann", "lastName": "Lee", "quantity": 1, "status": status,
		}, admin)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s: status = %d", status, rec.Code)
		}
	}

	if rec := env.do(t, http.MethodGet, "/orders", nil, buyer); rec.Code != http.StatusForbidden {
		t.Fatalf("buyer list: status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec := env.do(t, http.MethodGet, "/orders?status=approved", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var orders []model.Order
	decodeBody(t, rec, &orders)
	if len(orders) != 1 || orders[0].Status != model.OrderStatusApproved {
		t.Fatalf("unexpected orders: %+v", orders)
	}

	if rec := env.do(t, http.MethodGet, "/orders?status=lost", nil, admin); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad status: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	if rec := env.do(t, http.MethodGet, "/orders/"+"missing-id", nil, admin); rec.Code != http.StatusNotFound {
		t.Fatalf("missing order: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetOrder_AdminByID(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "root@x.com", model.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/orders", map[string]any{
		"productId": "p-7", "productName": "Wool coat", "unitPrice": "149.90",
		"email": "a@x.com", "firstName": "Ann", "lastName": "Lee", "quantity": 3,
		"address": "1 Main St", "paymentMethod": "Cash on Delivery",
	}, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body)
	}
	var created orderCreatedResponse
	decodeBody(t, rec, &created)

	rec = env.do(t, http.MethodGet, "/orders/"+created.InsertedID, nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d, body = %s", rec.Code, rec.Body)
	}

	var got map[string]any
	decodeBody(t, rec, &got)
	want := map[string]any{
		"_id":           created.InsertedID,
		"productId":     "p-7",
		"productName":   "Wool coat",
		"unitPrice":     149.9,
		"email":         "a@x.com",
		"firstName":     "Ann",
		"lastName":      "Lee",
		"quantity":      float64(3),
		"status":        "pending",
		"address":       "1 Main St",
		"paymentMethod": "Cash on Delivery",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %#v, want %#v", k, got[k], v)
		}
	}
}

type failingService struct {
	*service.Service
}

func (failingService) ListProducts(context.Context) ([]model.Product, error) {
	return nil, errors.New("connection reset")
}

func TestStorageError_IsInternal(t *testing.T) {
	repo := repository.NewMemoryRepository()
	env := newTestEnvWithService(t, failingService{service.NewService(repo)}, repo)

	rec := env.do(t, http.MethodGet, "/productsData", nil, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var msg messageResponse
	decodeBody(t, rec, &msg)
	if msg.Message != msgInternal {
		t.Fatalf("message = %q, want generic message", msg.Message)
	}
}
