package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/policy"
	"github.com/spec-kit/order-service/internal/receipt"
	"github.com/spec-kit/order-service/internal/repository/memory"
	"github.com/spec-kit/order-service/internal/service"
	apperrors "github.com/spec-kit/order-service/pkg/util/errorutil"
)

type capturedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *capturedEvents) Publish(_ context.Context, e events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *capturedEvents) Subscribe(events.EventType, events.EventHandler) {}

func (c *capturedEvents) ofType(t events.EventType) []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []events.Event
	for _, e := range c.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeRenderer struct {
	docs []receipt.Document
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, doc receipt.Document) ([]byte, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type testEnv struct {
	uow         *memory.UnitOfWork
	events      *capturedEvents
	renderer    *fakeRenderer
	revocations *auth.MemoryRevocationStore
	auth        *service.AuthService
	customers   *service.CustomerService
	catalog     *service.CatalogService
	orders      *service.OrderService
	admin       service.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}}

	env := &testEnv{
		uow:         memory.New(),
		events:      &capturedEvents{},
		renderer:    &fakeRenderer{},
		revocations: auth.NewMemoryRevocationStore(),
	}
	env.auth = service.NewAuthService(cfg, service.AuthDependencies{UnitOfWork: env.uow, Revocations: env.revocations})
	env.customers = service.NewCustomerService(cfg, service.CustomerDependencies{UnitOfWork: env.uow, Dispatcher: env.events})
	env.catalog = service.NewCatalogService(env.uow)
	env.orders = service.NewOrderService(service.OrderDependencies{
		UnitOfWork: env.uow,
		Dispatcher: env.events,
		Renderer:   env.renderer,
	})

	ctx := context.Background()
	_, err := env.auth.BootstrapAdmin(ctx, "admin", "admin-pass")
	require.NoError(t, err)
	adminUser, err := env.uow.Store().Users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	env.admin = service.Actor{
		Caller:   policy.Caller{UserID: adminUser.ID, Roles: adminUser.Roles},
		Username: adminUser.Username,
	}
	return env
}

// registerActive registers a customer, activates it and returns it as an actor.
func (e *testEnv) registerActive(t *testing.T, contact string) (service.Actor, *domain.Customer) {
	t.Helper()
	ctx := context.Background()
	customer, err := e.customers.Register(ctx, service.RegisterCustomerInput{
		Ship:       "MV " + contact,
		Supervisor: "Supervisor " + contact,
		Contact:    contact,
		Password:   "secret-" + contact,
	})
	require.NoError(t, err)
	_, err = e.auth.SetActive(ctx, e.admin, customer.UserID, true)
	require.NoError(t, err)
	return service.Actor{
		Caller: policy.Caller{
			UserID:     customer.UserID,
			CustomerID: customer.ID,
			Roles:      []domain.Role{domain.RoleCustomer},
		},
		Username: contact,
	}, customer
}

func requireCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T: %v", err, err)
	assert.Equal(t, code, domainErr.Code, domainErr.Message)
	return domainErr
}
