package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"liquor-delivery/internal/cart"
	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/infra/database"
	"liquor-delivery/internal/infra/rabbitmq"
	"liquor-delivery/internal/repository/gormrepo"
	"liquor-delivery/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testAdminKey = "s3cret"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	products := []domain.Product{
		{ID: "P1", Name: "Johnnie Walker Black 750ml", Slug: "jw-black", Price: decimal.NewFromInt(1200), InStock: true, Quantity: 10},
		{ID: "P2", Name: "Tusker 500ml", Slug: "tusker", Price: decimal.NewFromInt(300), InStock: true, Quantity: 48},
		{ID: "P3", Name: "Gilbeys 750ml", Slug: "gilbeys", Price: decimal.NewFromInt(900), InStock: false},
	}
	require.NoError(t, db.Create(&products).Error)

	logger := zap.NewNop()
	orderRepo := gormrepo.NewOrderRepository(db, logger)
	productRepo := gormrepo.NewProductRepository(db, logger)
	settings := services.NewSettingsService(gormrepo.NewSettingsRepository(db, logger), logger)
	orders := services.NewOrderService(orderRepo, productRepo, settings, rabbitmq.NopPublisher{}, logger)
	carts := services.NewCartService(cart.NewMemoryStore(), productRepo, settings, orders, logger)
	dashboard := services.NewDashboardService(orderRepo, productRepo, logger)

	r := gin.New()
	NewHandler(orders, carts, settings, dashboard, sqlDB, testAdminKey, logger).RegisterRoutes(r)
	return &testServer{router: r, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func orderBody(items ...map[string]any) map[string]any {
	return map[string]any{
		"customerName":    "Jane Wanjiku",
		"customerPhone":   "0712345678",
		"customerAddress": "Kilimani, Nairobi",
		"items":           items,
	}
}

func (s *testServer) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(&domain.Order{}).Count(&n).Error)
	return n
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		expectedStatus int
		expectedError  string
		expectedTotal  float64
	}{
		{
			name:           "prices at catalog price plus delivery fee",
			body:           orderBody(map[string]any{"productId": "P1", "quantity": 2, "price": 1}),
			expectedStatus: http.StatusCreated,
			expectedTotal:  2600,
		},
		{
			name:           "accepts id as product alias",
			body:           orderBody(map[string]any{"id": "P2", "quantity": 1}),
			expectedStatus: http.StatusCreated,
			expectedTotal:  500,
		},
		{
			name:           "missing fields",
			body:           map[string]any{"customerName": "Jane", "items": []any{}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Missing required fields",
		},
		{
			name:           "out of stock",
			body:           orderBody(map[string]any{"productId": "P1", "quantity": 1}, map[string]any{"productId": "P3", "quantity": 1}),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Product out of stock: Gilbeys 750ml",
		},
		{
			name:           "unknown product",
			body:           orderBody(map[string]any{"productId": "P404", "quantity": 1}),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Product not found: P404",
		},
		{
			name:           "malformed json",
			body:           `{"customerName":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			w := s.do(t, http.MethodPost, "/orders", tt.body, nil)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			body := decode(t, w)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
				assert.Zero(t, s.countOrders(t))
				return
			}

			assert.Equal(t, tt.expectedTotal, body["totalAmount"])
			assert.Equal(t, "pending", body["status"])
			assert.Equal(t, "pending", body["paymentStatus"])
			assert.Regexp(t, `^ORD-[0-9A-Z]+-[0-9A-Z]{8}$`, body["orderNumber"])
			items, ok := body["items"].([]any)
			require.True(t, ok)
			require.Len(t, items, 1)
			assert.NotNil(t, items[0].(map[string]any)["product"])
			assert.Equal(t, int64(1), s.countOrders(t))
		})
	}
}

func TestLookupOrders(t *testing.T) {
	s := newTestServer(t)
	created := decode(t, s.do(t, http.MethodPost, "/orders", orderBody(map[string]any{"productId": "P1", "quantity": 1}), nil))

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{name: "no selector", query: "", expectedStatus: http.StatusBadRequest},
		{name: "by phone", query: "?phone=0712345678", expectedStatus: http.StatusOK, expectedCount: 1},
		{name: "by order number", query: "?orderNumber=" + created["orderNumber"].(string), expectedStatus: http.StatusOK, expectedCount: 1},
		{name: "no match", query: "?phone=0799999999", expectedStatus: http.StatusOK, expectedCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/orders"+tt.query, nil, nil)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, "Order number or phone required", decode(t, w)["error"])
				return
			}
			var orders []map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
			assert.Len(t, orders, tt.expectedCount)
		})
	}
}

func TestUpdateOrder(t *testing.T) {
	s := newTestServer(t)
	created := decode(t, s.do(t, http.MethodPost, "/orders", orderBody(map[string]any{"productId": "P1", "quantity": 1}), nil))
	id := created["id"].(string)

	tests := []struct {
		name           string
		id             string
		key            string
		body           any
		expectedStatus int
		expectedError  string
		check          func(*testing.T, map[string]any)
	}{
		{
			name:           "missing api key",
			id:             id,
			body:           map[string]any{"status": "confirmed"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Unauthorized",
		},
		{
			name:           "wrong api key",
			id:             id,
			key:            "guess",
			body:           map[string]any{"status": "confirmed"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Unauthorized",
		},
		{
			name:           "mark paid with receipt",
			id:             id,
			key:            testAdminKey,
			body:           map[string]any{"paymentStatus": "paid", "mpesaReceiptNo": "QA12 XYZ"},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, o map[string]any) {
				assert.Equal(t, "paid", o["paymentStatus"])
				assert.Equal(t, "QA12 XYZ", o["mpesaReceiptNo"])
				assert.Equal(t, "pending", o["status"])
				assert.Equal(t, float64(1400), o["totalAmount"])
			},
		},
		{
			name:           "any status may be set",
			id:             id,
			key:            testAdminKey,
			body:           map[string]any{"status": "delivered"},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, o map[string]any) {
				assert.Equal(t, "delivered", o["status"])
				assert.Equal(t, "paid", o["paymentStatus"])
			},
		},
		{
			name:           "invalid status",
			id:             id,
			key:            testAdminKey,
			body:           map[string]any{"status": "shipped"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid order status: shipped",
		},
		{
			name:           "unknown order",
			id:             "does-not-exist",
			key:            testAdminKey,
			body:           map[string]any{"status": "confirmed"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Order not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.key != "" {
				headers[HeaderAPIKey] = tt.key
			}
			w := s.do(t, http.MethodPut, "/orders/"+tt.id, tt.body, headers)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			body := decode(t, w)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
				return
			}
			tt.check(t, body)
		})
	}
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	created := decode(t, s.do(t, http.MethodPost, "/orders", orderBody(map[string]any{"productId": "P2", "quantity": 3}), nil))
	admin := map[string]string{HeaderAPIKey: testAdminKey}

	w := s.do(t, http.MethodGet, "/admin/dashboard", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/admin/dashboard", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := decode(t, w)
	assert.Equal(t, float64(3), d["totalProducts"])
	assert.Equal(t, float64(1), d["totalOrders"])
	assert.Equal(t, float64(1), d["pendingOrders"])
	assert.Equal(t, float64(0), d["totalRevenue"], "unpaid orders earn nothing")

	w = s.do(t, http.MethodGet, "/admin/orders", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)

	w = s.do(t, http.MethodGet, "/admin/orders/"+created["id"].(string), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created["orderNumber"], decode(t, w)["orderNumber"])
}

func TestSettingsRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := map[string]string{HeaderAPIKey: testAdminKey}

	w := s.do(t, http.MethodPut, "/admin/settings", map[string]any{
		"storeName":           "Liquor Delivery",
		"mpesaEnabled":        true,
		"mpesaTillNumber":     "5551234",
		"mpesaConsumerSecret": "hidden",
		"deliveryFee":         "350",
		"minimumOrder":        1000,
	}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/settings", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pub := decode(t, w)
	assert.Equal(t, float64(350), pub["deliveryFee"])
	assert.Equal(t, float64(1000), pub["minimumOrder"])
	assert.Equal(t, "5551234", pub["mpesaTillNumber"])
	assert.NotContains(t, pub, "mpesaConsumerSecret")

	w = s.do(t, http.MethodGet, "/admin/settings", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hidden", decode(t, w)["mpesaConsumerSecret"])

	w = s.do(t, http.MethodPost, "/orders", orderBody(map[string]any{"productId": "P2", "quantity": 1}), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(650), decode(t, w)["totalAmount"], "intake charges the new fee even below the minimum")
}

func TestSettingsRoutes_PartialUpdateKeepsOmittedFields(t *testing.T) {
	s := newTestServer(t)
	admin := map[string]string{HeaderAPIKey: testAdminKey}

	w := s.do(t, http.MethodPut, "/admin/settings", map[string]any{
		"storeName":           "Liquor Delivery",
		"mpesaEnabled":        true,
		"mpesaConsumerSecret": "hidden",
		"manualPaymentPhone":  "0712345678",
		"deliveryFee":         200,
		"minimumOrder":        500,
	}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/admin/settings", map[string]any{"deliveryFee": 300}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/admin/settings", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, float64(300), got["deliveryFee"])
	assert.Equal(t, float64(0), got["minimumOrder"], "omitted amounts fall back to zero")
	assert.Equal(t, "0712345678", got["manualPaymentPhone"])
	assert.Equal(t, "hidden", got["mpesaConsumerSecret"])
	assert.Equal(t, "Liquor Delivery", got["storeName"])
	assert.Equal(t, true, got["mpesaEnabled"])
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)
	session := map[string]string{HeaderCartSession: "browser-1"}

	w := s.do(t, http.MethodGet, "/cart", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart session required", decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/cart/items", map[string]any{"productId": "P1", "quantity": 1}, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, "/cart/items", map[string]any{"productId": "P1", "quantity": 1}, session)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode(t, w)
	assert.Equal(t, float64(2), view["totalItems"])
	assert.Equal(t, float64(2400), view["totalPrice"])

	w = s.do(t, http.MethodGet, "/cart/quote", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	quote := decode(t, w)
	assert.Equal(t, float64(2400), quote["subtotal"])
	assert.Equal(t, float64(200), quote["deliveryFee"])
	assert.Equal(t, float64(2600), quote["total"])
	assert.Equal(t, false, quote["belowMinimum"])

	w = s.do(t, http.MethodPost, "/cart/items", map[string]any{"productId": "P404"}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/cart/checkout", map[string]any{
		"customerName":    "Jane Wanjiku",
		"customerPhone":   "0712345678",
		"customerAddress": "Kilimani, Nairobi",
	}, session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(2600), decode(t, w)["totalAmount"])

	w = s.do(t, http.MethodGet, "/cart", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["totalItems"])

	w = s.do(t, http.MethodPost, "/cart/checkout", map[string]any{
		"customerName":    "Jane Wanjiku",
		"customerPhone":   "0712345678",
		"customerAddress": "Kilimani, Nairobi",
	}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", decode(t, w)["error"])
}

func TestCartItemEdits(t *testing.T) {
	s := newTestServer(t)
	session := map[string]string{HeaderCartSession: "browser-2"}

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/items", map[string]any{"productId": "P2", "quantity": 4}, session).Code)

	w := s.do(t, http.MethodPut, "/cart/items/P2", map[string]any{"quantity": 1}, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["totalItems"])

	w = s.do(t, http.MethodGet, "/cart/quote", nil, session)
	quote := decode(t, w)
	assert.Equal(t, true, quote["belowMinimum"])
	assert.Equal(t, float64(0), quote["deliveryFee"])

	w = s.do(t, http.MethodDelete, "/cart/items/P2", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["totalItems"])

	w = s.do(t, http.MethodDelete, "/cart", nil, session)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestRequireAdmin_EmptyKeyLocksRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", RequireAdmin(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(HeaderAPIKey, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
