package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/order-service/internal/api/http/handlers"
	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/observability"
	"github.com/spec-kit/order-service/internal/receipt"
	"github.com/spec-kit/order-service/internal/repository/memory"
	"github.com/spec-kit/order-service/internal/service"
)

type stubRenderer struct {
	err error
}

func (r *stubRenderer) Render(_ context.Context, doc receipt.Document) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 " + doc.OrderID), nil
}

type testServer struct {
	t        *testing.T
	app      *fiber.App
	renderer *stubRenderer
	admin    string
}

type apiResponse struct {
	Status int
	Header nethttp.Header
	Body   map[string]any
	Raw    []byte
}

func (r apiResponse) data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

func (r apiResponse) list() []any {
	d, _ := r.Body["data"].([]any)
	return d
}

func (r apiResponse) errorCode() string {
	e, _ := r.Body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func (r apiResponse) errorDetails() map[string]any {
	e, _ := r.Body["error"].(map[string]any)
	d, _ := e["details"].(map[string]any)
	return d
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "http-test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            bcrypt.MinCost,
	}}
	logger := zap.NewNop()
	uow := memory.New()
	dispatcher := events.NewInMemoryDispatcher(logger)
	revocations := auth.NewMemoryRevocationStore()
	renderer := &stubRenderer{}
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(cfg, service.AuthDependencies{UnitOfWork: uow, Revocations: revocations, Logger: logger})
	customerService := service.NewCustomerService(cfg, service.CustomerDependencies{UnitOfWork: uow, Dispatcher: dispatcher, Logger: logger})
	orderService := service.NewOrderService(service.OrderDependencies{UnitOfWork: uow, Dispatcher: dispatcher, Renderer: renderer, Logger: logger})
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterMiddlewares(app, logger, metrics, 0)
	store := uow.Store()
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("order-service", "test", nil, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Admin:          handlers.NewAdminHandler(authService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Orders:         handlers.NewOrdersHandler(orderService),
		OrderItems:     handlers.NewOrderItemsHandler(orderService),
		Items:          handlers.NewItemsHandler(service.NewCatalogService(uow)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), revocations, store.Users, store.Customers),
	})

	_, err := authService.BootstrapAdmin(context.Background(), "admin", "admin-pass")
	require.NoError(t, err)

	s := &testServer{t: t, app: app, renderer: renderer}
	s.admin = s.login("admin", "admin-pass")
	return s
}

func (s *testServer) do(method, path, token string, body any) apiResponse {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	out := apiResponse{Status: resp.StatusCode, Header: resp.Header, Raw: raw}
	if len(raw) > 0 && resp.Header.Get(fiber.HeaderContentType) != "application/pdf" {
		require.NoError(s.t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	resp := s.do("POST", "/auth-token", "", map[string]any{"username": username, "password": password})
	require.Equal(s.t, nethttp.StatusOK, resp.Status, string(resp.Raw))
	token, _ := resp.data()["token"].(string)
	require.NotEmpty(s.t, token)
	return token
}

type customerAccount struct {
	token      string
	customerID string
	userID     string
}

func (s *testServer) registerActive(contact string) customerAccount {
	s.t.Helper()
	resp := s.do("POST", "/customer", "", map[string]any{
		"ship":       "MV " + contact,
		"supervisor": "Supervisor",
		"contact":    contact,
		"password":   "pw-" + contact,
	})
	require.Equal(s.t, nethttp.StatusCreated, resp.Status, string(resp.Raw))
	userID := resp.data()["user_id"].(string)

	activate := s.do("POST", "/admin/users/"+userID+"/activate", s.admin, nil)
	require.Equal(s.t, nethttp.StatusOK, activate.Status, string(activate.Raw))

	return customerAccount{
		token:      s.login(contact, "pw-"+contact),
		customerID: resp.data()["id"].(string),
		userID:     userID,
	}
}

func (s *testServer) createOrder(token string, items ...map[string]any) map[string]any {
	s.t.Helper()
	if len(items) == 0 {
		items = []map[string]any{{"name": "Rice", "quantity": "2", "unit": "kg"}}
	}
	resp := s.do("POST", "/order", token, map[string]any{"items": items})
	require.Equal(s.t, nethttp.StatusCreated, resp.Status, string(resp.Raw))
	return resp.data()
}

func itemsOf(order map[string]any) []map[string]any {
	raw, _ := order["items"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.(map[string]any))
	}
	return out
}

func decimalField(t *testing.T, m map[string]any, key string) decimal.Decimal {
	t.Helper()
	s, ok := m[key].(string)
	require.True(t, ok, "%s is not a decimal string: %v", key, m[key])
	return decimal.RequireFromString(s)
}

func TestCreateOrderWithEmptyItemsNamesItems(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")

	resp := s.do("POST", "/order", crew.token, map[string]any{"items": []any{}})

	assert.Equal(t, nethttp.StatusBadRequest, resp.Status)
	assert.Equal(t, "VALIDATION_FAILED", resp.errorCode())
	assert.Contains(t, resp.errorDetails(), "items")
}

func TestCreateOrderReportsNestedFieldPaths(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")

	resp := s.do("POST", "/order", crew.token, map[string]any{"items": []any{
		map[string]any{"name": "Rice", "quantity": "1", "unit": "kg"},
		map[string]any{"name": "Beans", "quantity": "0", "unit": "pound"},
	}})

	assert.Equal(t, nethttp.StatusBadRequest, resp.Status)
	details := resp.errorDetails()
	assert.Contains(t, details, "items[1].unit")
	assert.Contains(t, details, "items[1].quantity")
	assert.NotContains(t, details, "items[0].unit")
}

func TestCreateOrderIgnoresClientState(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")

	resp := s.do("POST", "/order", crew.token, map[string]any{
		"state": "DELIVERED",
		"items": []any{map[string]any{"name": "Rice", "quantity": "2", "unit": "kg"}},
	})

	require.Equal(t, nethttp.StatusCreated, resp.Status, string(resp.Raw))
	assert.Equal(t, "CREATED", resp.data()["state"])
	assert.Equal(t, crew.customerID, resp.data()["customer_id"])
}

func TestSameNamedItemsShareCatalogEntry(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")

	order := s.createOrder(crew.token,
		map[string]any{"name": "Green Apple", "quantity": "1", "unit": "kg"},
		map[string]any{"name": "  green   APPLE ", "quantity": "3", "unit": "u"},
	)
	items := itemsOf(order)
	require.Len(t, items, 2)
	assert.Equal(t, items[0]["item_id"], items[1]["item_id"])

	other := s.registerActive("other@example.com")
	second := s.createOrder(other.token, map[string]any{"name": "GREEN APPLE", "quantity": "1", "unit": "dozen"})
	assert.Equal(t, items[0]["item_id"], itemsOf(second)[0]["item_id"])

	catalog := s.do("GET", "/item", s.admin, nil)
	require.Equal(t, nethttp.StatusOK, catalog.Status)
	assert.Len(t, catalog.list(), 1)
}

func TestOrderListScoping(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerActive("alice@example.com")
	bob := s.registerActive("bob@example.com")
	s.createOrder(alice.token)
	s.createOrder(alice.token)
	s.createOrder(bob.token)

	own := s.do("GET", "/order", alice.token, nil)
	require.Equal(t, nethttp.StatusOK, own.Status)
	assert.Len(t, own.list(), 2)
	for _, o := range own.list() {
		assert.Equal(t, alice.customerID, o.(map[string]any)["customer_id"])
	}

	forbidden := s.do("GET", "/order/all", alice.token, nil)
	assert.Equal(t, nethttp.StatusForbidden, forbidden.Status)
	assert.Equal(t, "FORBIDDEN", forbidden.errorCode())

	all := s.do("GET", "/order/all", s.admin, nil)
	require.Equal(t, nethttp.StatusOK, all.Status)
	assert.Len(t, all.list(), 3)

	paged := s.do("GET", "/order/all?page=2&page_size=2", s.admin, nil)
	require.Equal(t, nethttp.StatusOK, paged.Status)
	assert.Len(t, paged.list(), 1)

	bad := s.do("GET", "/order?state=LOST", alice.token, nil)
	assert.Equal(t, nethttp.StatusBadRequest, bad.Status)
}

func TestOrderObjectAccess(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerActive("alice@example.com")
	bob := s.registerActive("bob@example.com")
	order := s.createOrder(alice.token)
	id := order["id"].(string)

	assert.Equal(t, nethttp.StatusOK, s.do("GET", "/order/"+id, alice.token, nil).Status)
	assert.Equal(t, nethttp.StatusOK, s.do("GET", "/order/"+id, s.admin, nil).Status)
	assert.Equal(t, nethttp.StatusForbidden, s.do("GET", "/order/"+id, bob.token, nil).Status)
	assert.Equal(t, nethttp.StatusUnauthorized, s.do("GET", "/order/"+id, "", nil).Status)

	missing := s.do("GET", "/order/00000000-0000-0000-0000-000000000000", alice.token, nil)
	assert.Equal(t, nethttp.StatusNotFound, missing.Status)
	assert.Equal(t, "NOT_FOUND", missing.errorCode())
}

func TestPriceUpdateRecomputesTotal(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")
	order := s.createOrder(crew.token,
		map[string]any{"name": "Rice", "quantity": "2", "unit": "kg"},
		map[string]any{"name": "Milk", "quantity": "6", "unit": "lts"},
	)
	items := itemsOf(order)

	denied := s.do("PATCH", "/orderitem/"+items[0]["id"].(string), crew.token, map[string]any{"price": "1.00"})
	assert.Equal(t, nethttp.StatusForbidden, denied.Status)

	first := s.do("PATCH", "/orderitem/"+items[0]["id"].(string), s.admin, map[string]any{"price": "10.50"})
	require.Equal(t, nethttp.StatusOK, first.Status, string(first.Raw))
	second := s.do("PATCH", "/orderitem/"+items[1]["id"].(string), s.admin, map[string]any{"price": 4.25})
	require.Equal(t, nethttp.StatusOK, second.Status, string(second.Raw))

	got := s.do("GET", "/order/"+order["id"].(string), crew.token, nil)
	require.Equal(t, nethttp.StatusOK, got.Status)
	assert.True(t, decimalField(t, got.data(), "total").Equal(decimal.RequireFromString("14.75")))

	qty := s.do("PATCH", "/orderitem/"+items[1]["id"].(string), crew.token, map[string]any{"quantity": "12", "unit": "u"})
	require.Equal(t, nethttp.StatusOK, qty.Status, string(qty.Raw))
	assert.Equal(t, "u", qty.data()["unit"])

	del := s.do("DELETE", "/orderitem/"+items[0]["id"].(string), crew.token, nil)
	assert.Equal(t, nethttp.StatusNoContent, del.Status)
	got = s.do("GET", "/order/"+order["id"].(string), crew.token, nil)
	assert.True(t, decimalField(t, got.data(), "total").Equal(decimal.RequireFromString("4.25")))
}

func TestCancelStampsActorAndRecordsHistory(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")
	order := s.createOrder(crew.token)
	id := order["id"].(string)

	promote := s.do("PATCH", "/order/"+id, crew.token, map[string]any{"state": "PROCESSING"})
	assert.Equal(t, nethttp.StatusForbidden, promote.Status)

	processing := s.do("PATCH", "/order/"+id, s.admin, map[string]any{"state": "PROCESSING"})
	require.Equal(t, nethttp.StatusOK, processing.Status, string(processing.Raw))

	cancel := s.do("PATCH", "/order/"+id, crew.token, map[string]any{"state": "CANCELLED", "comment": "changed my mind"})
	require.Equal(t, nethttp.StatusOK, cancel.Status, string(cancel.Raw))
	assert.Equal(t, "CANCELLED", cancel.data()["state"])
	assert.Equal(t, "Order cancelled by crew@example.com", cancel.data()["comment"])

	reopen := s.do("PATCH", "/order/"+id, s.admin, map[string]any{"state": "CREATED"})
	assert.Equal(t, nethttp.StatusBadRequest, reopen.Status)
	assert.Contains(t, reopen.errorDetails(), "state")

	addItem := s.do("POST", "/order/"+id+"/add_item", crew.token, map[string]any{"name": "Salt", "quantity": "1", "unit": "kg"})
	assert.Equal(t, nethttp.StatusBadRequest, addItem.Status)

	history := s.do("GET", "/order/"+id+"/history", crew.token, nil)
	require.Equal(t, nethttp.StatusOK, history.Status)
	require.Len(t, history.list(), 2)
	last := history.list()[1].(map[string]any)
	assert.Equal(t, "PROCESSING", last["from_state"])
	assert.Equal(t, "CANCELLED", last["to_state"])
	assert.Equal(t, "crew@example.com", last["actor_name"])
}

func TestAddItemReturnsOK(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")
	order := s.createOrder(crew.token)

	resp := s.do("POST", "/order/"+order["id"].(string)+"/add_item", crew.token, map[string]any{
		"name": "Coffee", "quantity": "2.5", "unit": "kg", "price": "99",
	})

	require.Equal(t, nethttp.StatusOK, resp.Status, string(resp.Raw))
	assert.Equal(t, "Coffee", resp.data()["name"])
	assert.Nil(t, resp.data()["price"])
}

func TestDuplicateContactRejected(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"ship": "MV A", "supervisor": "S", "contact": "dup@example.com", "password": "pw"}
	require.Equal(t, nethttp.StatusCreated, s.do("POST", "/customer", "", body).Status)

	resp := s.do("POST", "/customer", "", body)

	assert.Equal(t, nethttp.StatusBadRequest, resp.Status)
	assert.Equal(t, "VALIDATION_FAILED", resp.errorCode())
	assert.Contains(t, resp.errorDetails(), "contact")
}

func TestRegisterRejectsBlankContactAndLongPassword(t *testing.T) {
	s := newTestServer(t)

	blank := s.do("POST", "/customer", "", map[string]any{"ship": "MV A", "supervisor": "S", "contact": "   ", "password": "pw"})
	assert.Equal(t, nethttp.StatusBadRequest, blank.Status, string(blank.Raw))
	assert.Contains(t, blank.errorDetails(), "contact")

	long := s.do("POST", "/customer", "", map[string]any{
		"ship": "MV A", "supervisor": "S", "contact": "long@example.com", "password": strings.Repeat("x", 100),
	})
	assert.Equal(t, nethttp.StatusBadRequest, long.Status, string(long.Raw))
	assert.Equal(t, "VALIDATION_FAILED", long.errorCode())
	assert.Contains(t, long.errorDetails(), "password")
}

func TestOrderItemDecimalPrecision(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")

	rejected := s.do("POST", "/order", crew.token, map[string]any{"items": []any{
		map[string]any{"name": "Salt", "quantity": "0.0004", "unit": "g"},
	}})
	assert.Equal(t, nethttp.StatusBadRequest, rejected.Status, string(rejected.Raw))
	assert.Contains(t, rejected.errorDetails(), "items[0].quantity")

	order := s.createOrder(crew.token, map[string]any{"name": "Rice", "quantity": "2", "unit": "kg"})
	itemID := itemsOf(order)[0]["id"].(string)

	price := s.do("PATCH", "/orderitem/"+itemID, s.admin, map[string]any{"price": "1.005"})
	assert.Equal(t, nethttp.StatusBadRequest, price.Status, string(price.Raw))
	assert.Contains(t, price.errorDetails(), "price")
}

func TestRegisterResponseOmitsPassword(t *testing.T) {
	s := newTestServer(t)

	resp := s.do("POST", "/customer", "", map[string]any{"ship": "MV A", "supervisor": "S", "contact": "x@example.com", "password": "pw"})

	require.Equal(t, nethttp.StatusCreated, resp.Status)
	assert.NotContains(t, string(resp.Raw), "password")
	assert.NotContains(t, string(resp.Raw), "pw\"")
}

func TestTokenForInactiveAndActiveAccounts(t *testing.T) {
	s := newTestServer(t)
	reg := s.do("POST", "/customer", "", map[string]any{"ship": "MV A", "supervisor": "S", "contact": "new@example.com", "password": "pw"})
	require.Equal(t, nethttp.StatusCreated, reg.Status)

	inactive := s.do("POST", "/auth-token", "", map[string]any{"username": "new@example.com", "password": "pw"})
	assert.Equal(t, nethttp.StatusBadRequest, inactive.Status)
	assert.Equal(t, "ACCOUNT_INACTIVE", inactive.errorCode())

	wrong := s.do("POST", "/auth-token", "", map[string]any{"username": "new@example.com", "password": "nope"})
	assert.Equal(t, nethttp.StatusBadRequest, wrong.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", wrong.errorCode())

	userID := reg.data()["user_id"].(string)
	require.Equal(t, nethttp.StatusOK, s.do("POST", "/admin/users/"+userID+"/activate", s.admin, nil).Status)

	active := s.do("POST", "/auth-token", "", map[string]any{"username": "new@example.com", "password": "pw"})
	require.Equal(t, nethttp.StatusOK, active.Status)
	data := active.data()
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, userID, data["user_id"])
	assert.Equal(t, reg.data()["id"], data["customer_id"])
	assert.Equal(t, []any{"customer"}, data["roles"])
}

func TestRevokedTokenIsRejected(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")
	require.Equal(t, nethttp.StatusOK, s.do("GET", "/order", crew.token, nil).Status)

	assert.Equal(t, nethttp.StatusNoContent, s.do("DELETE", "/auth-token", crew.token, nil).Status)

	resp := s.do("GET", "/order", crew.token, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.Status)
	assert.Equal(t, "UNAUTHORIZED", resp.errorCode())
}

func TestDeactivatedUserLosesAccess(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")

	deactivate := s.do("POST", "/admin/users/"+crew.userID+"/deactivate", s.admin, nil)
	require.Equal(t, nethttp.StatusOK, deactivate.Status)
	assert.Equal(t, false, deactivate.data()["is_active"])

	assert.Equal(t, nethttp.StatusUnauthorized, s.do("GET", "/order", crew.token, nil).Status)
	assert.Equal(t, nethttp.StatusForbidden, s.do("POST", "/admin/users/"+crew.userID+"/activate", s.registerActive("other@example.com").token, nil).Status)
}

func TestMalformedTokenRejected(t *testing.T) {
	s := newTestServer(t)

	resp := s.do("GET", "/order", "not-a-jwt", nil)

	assert.Equal(t, nethttp.StatusUnauthorized, resp.Status)
}

func TestCustomerProfileAccess(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerActive("alice@example.com")
	bob := s.registerActive("bob@example.com")

	assert.Equal(t, nethttp.StatusOK, s.do("GET", "/customer/"+alice.customerID, alice.token, nil).Status)
	assert.Equal(t, nethttp.StatusForbidden, s.do("GET", "/customer/"+alice.customerID, bob.token, nil).Status)

	updated := s.do("PATCH", "/customer/"+alice.customerID, alice.token, map[string]any{"ship": "MV Borealis", "contact": "ignored@example.com"})
	require.Equal(t, nethttp.StatusOK, updated.Status)
	assert.Equal(t, "MV Borealis", updated.data()["ship"])
	assert.Equal(t, "alice@example.com", updated.data()["contact"])
}

func TestCatalogIsAdminOnly(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")
	order := s.createOrder(crew.token)
	itemID := itemsOf(order)[0]["item_id"].(string)

	assert.Equal(t, nethttp.StatusForbidden, s.do("GET", "/item", crew.token, nil).Status)
	assert.Equal(t, nethttp.StatusForbidden, s.do("GET", "/item/"+itemID, crew.token, nil).Status)

	updated := s.do("PATCH", "/item/"+itemID, s.admin, map[string]any{"default_price": "3.75"})
	require.Equal(t, nethttp.StatusOK, updated.Status, string(updated.Raw))
	assert.True(t, decimalField(t, updated.data(), "default_price").Equal(decimal.RequireFromString("3.75")))
}

func TestReceiptEndpoint(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")
	id := s.createOrder(crew.token)["id"].(string)

	resp := s.do("GET", "/order/"+id+"/receipt", crew.token, nil)
	require.Equal(t, nethttp.StatusOK, resp.Status)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "%PDF-1.4 "+id, string(resp.Raw))

	s.renderer.err = errors.New("wkhtmltopdf crashed")
	failed := s.do("GET", "/order/"+id+"/receipt", crew.token, nil)
	assert.Equal(t, nethttp.StatusBadGateway, failed.Status)
	assert.Equal(t, "RENDER_FAILED", failed.errorCode())
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	crew := s.registerActive("crew@example.com")

	live := s.do("GET", "/health/live", "", nil)
	assert.Equal(t, nethttp.StatusOK, live.Status)
	assert.Equal(t, "alive", live.Body["status"])

	ready := s.do("GET", "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, ready.Status)

	assert.Equal(t, nethttp.StatusForbidden, s.do("GET", "/health/metrics", crew.token, nil).Status)
	metrics := s.do("GET", "/health/metrics", s.admin, nil)
	require.Equal(t, nethttp.StatusOK, metrics.Status)
	assert.NotZero(t, metrics.data()["total_requests"])
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	s := newTestServer(t)

	resp := s.do("GET", "/nope", "", nil)

	assert.Equal(t, nethttp.StatusNotFound, resp.Status)
	assert.Equal(t, "NOT_FOUND", resp.errorCode())
}
