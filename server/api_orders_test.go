package laundryserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	authmemory "github.com/Apurer/laundry-backoffice/internal/domains/auth/adapters/memory"
	authapp "github.com/Apurer/laundry-backoffice/internal/domains/auth/application"
	authdomain "github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
	authports "github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
	ordersdomain "github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
	ordersports "github.com/Apurer/laundry-backoffice/internal/domains/orders/ports"
)

const testUserAgent = "Mozilla/5.0 (X11; Linux x86_64)"

// stubOrderService serves canned orders so the transport layer can be
// exercised without the full workflow stack.
type stubOrderService struct {
	orders []*ordersdomain.Order
}

func (s *stubOrderService) CreateOrder(context.Context, authports.AccessRequest, ordersports.CreateOrderInput) (*ordersports.CreateOrderResult, error) {
	return nil, authports.ErrNoSession
}

func (s *stubOrderService) ChangeStatus(context.Context, authports.AccessRequest, int64, string) (*ordersports.StatusChange, error) {
	return nil, authports.ErrNoSession
}

func (s *stubOrderService) ChangePayment(context.Context, authports.AccessRequest, int64, string) (*ordersports.PaymentChange, error) {
	return nil, authports.ErrNoSession
}

func (s *stubOrderService) GetOrder(_ context.Context, id int64) (*ordersdomain.Order, error) {
	for _, order := range s.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, ordersports.ErrNotFound
}

func (s *stubOrderService) ListActiveOrders(context.Context) ([]*ordersdomain.Order, error) {
	return s.orders, nil
}

func (s *stubOrderService) Catalog() []ordersdomain.CatalogEntry {
	return ordersdomain.DefaultCatalog().Entries()
}

func storedOrder(t *testing.T) *ordersdomain.Order {
	t.Helper()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	quote, err := ordersdomain.PriceOrder([]ordersdomain.Selection{
		{Service: "Regular Clothes", Quantity: 5},
	}, ordersdomain.ModeRegular, ordersdomain.DefaultCatalog(), now)
	require.NoError(t, err)
	order, err := ordersdomain.NewOrder(ordersdomain.Customer{
		Name:  "Maria Santos",
		Email: "maria@example.com",
		Phone: "0917-555-0101",
	}, quote, "", now)
	require.NoError(t, err)
	order.ID = 1
	return order
}

func newOrdersTestRouter(t *testing.T) (*gin.Engine, authports.SessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := authmemory.NewSessionStore()
	guard := authapp.NewGuardRail(sessions, authmemory.NewRateLimiter())
	handlers := ApiHandleFunctions{
		OrdersAPI: NewOrdersAPI(&stubOrderService{orders: []*ordersdomain.Order{storedOrder(t)}}, guard),
	}
	return NewRouterWithGinEngine(gin.New(), handlers), sessions
}

func loggedInSession(t *testing.T, sessions authports.SessionStore, role authdomain.Role) *authdomain.Session {
	t.Helper()
	user := &authdomain.User{ID: 1, Name: "Admin", Role: role}
	session, err := authdomain.NewSession(user, testUserAgent, "127.0.0.1", time.Now())
	require.NoError(t, err)
	require.NoError(t, sessions.Save(context.Background(), session))
	return session
}

func getWithSession(router *gin.Engine, path string, session *authdomain.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", testUserAgent)
	if session != nil {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestOrderReadsRequireSession(t *testing.T) {
	router, _ := newOrdersTestRouter(t)

	for _, path := range []string{"/v1/orders", "/v1/orders/1"} {
		resp := getWithSession(router, path, nil)
		require.Equal(t, http.StatusUnauthorized, resp.Code, path)
		require.NotContains(t, resp.Body.String(), "maria@example.com", path)
		require.NotContains(t, resp.Body.String(), "0917-555-0101", path)
	}
}

func TestOrderReadsRequireAdminRole(t *testing.T) {
	router, sessions := newOrdersTestRouter(t)
	session := loggedInSession(t, sessions, authdomain.RoleUser)

	for _, path := range []string{"/v1/orders", "/v1/orders/1"} {
		resp := getWithSession(router, path, session)
		require.Equal(t, http.StatusForbidden, resp.Code, path)
		require.NotContains(t, resp.Body.String(), "maria@example.com", path)
	}
}

func TestOrderReadsServeAdmins(t *testing.T) {
	router, sessions := newOrdersTestRouter(t)
	session := loggedInSession(t, sessions, authdomain.RoleAdmin)

	list := getWithSession(router, "/v1/orders", session)
	require.Equal(t, http.StatusOK, list.Code)
	require.Contains(t, list.Body.String(), "maria@example.com")

	one := getWithSession(router, "/v1/orders/1", session)
	require.Equal(t, http.StatusOK, one.Code)
	require.Contains(t, one.Body.String(), "Maria Santos")
}

func TestCatalogStaysPublic(t *testing.T) {
	router, _ := newOrdersTestRouter(t)

	resp := getWithSession(router, "/v1/catalog", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Regular Clothes")
}
