package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/infrastructure/events"
	"github.com/sangkips/salon-api/internal/infrastructure/memory"
	"github.com/sangkips/salon-api/internal/infrastructure/metrics"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(router http.Handler, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// withIdentity stands in for AuthMiddleware
func withIdentity(userID, tenantID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("tenant_id", tenantID)
		c.Request = c.Request.WithContext(infraRepo.WithTenant(c.Request.Context(), tenantID))
		c.Next()
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	tenantID := uuid.New()
	token, err := jwtManager.GenerateAccessToken(uuid.New(), tenantID, "owner@salon.test", []string{"owner"}, nil)
	require.NoError(t, err)

	router := gin.New()
	router.Use(AuthMiddleware(jwtManager))
	router.GET("/me", func(c *gin.Context) {
		ctxTenant, ok := infraRepo.GetTenantID(c.Request.Context())
		assert.True(t, ok)
		assert.Equal(t, tenantID, ctxTenant)
		assert.Equal(t, tenantID, GetTenantID(c))
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := perform(router, http.MethodGet, "/me", nil, headers)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_roles", []string{c.GetHeader("X-Role")})
		c.Next()
	})
	router.GET("/reports", RequireRole("owner", "manager"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/reports", nil, map[string]string{"X-Role": "manager"}).Code)
	assert.Equal(t, http.StatusForbidden, perform(router, http.MethodGet, "/reports", nil, map[string]string{"X-Role": "stylist"}).Code)
}

func TestRequireTenant(t *testing.T) {
	router := gin.New()
	router.GET("/none", RequireTenant(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodGet, "/none", nil, nil).Code)
}

func TestTenantRateLimiter(t *testing.T) {
	rl := NewTenantRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Stop()

	tenantA, tenantB := uuid.New(), uuid.New()
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if c.GetHeader("X-Tenant") == "b" {
			c.Set("tenant_id", tenantB)
		} else {
			c.Set("tenant_id", tenantA)
		}
		c.Next()
	})
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ping", nil, nil).Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ping", nil, nil).Code)

	w := perform(router, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// another tenant has its own bucket
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ping", nil, map[string]string{"X-Tenant": "b"}).Code)
	assert.Equal(t, 2, rl.Stats()["active_tenants"])
}

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	store := memory.NewStore()
	userID, tenantID := uuid.New(), uuid.New()

	calls := 0
	router := gin.New()
	router.Use(withIdentity(userID, tenantID))
	router.POST("/sales", Idempotency(IdempotencyConfig{Repo: store.Idempotency(), Logger: zap.NewNop()}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	headers := map[string]string{IdempotencyKeyHeader: "sale-1"}
	first := perform(router, http.MethodPost, "/sales", []byte(`{}`), headers)
	second := perform(router, http.MethodPost, "/sales", []byte(`{}`), headers)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	// without a key every request runs
	perform(router, http.MethodPost, "/sales", []byte(`{}`), nil)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_DoesNotStoreFailures(t *testing.T) {
	store := memory.NewStore()
	userID, tenantID := uuid.New(), uuid.New()

	calls := 0
	router := gin.New()
	router.Use(withIdentity(userID, tenantID))
	router.POST("/sales", Idempotency(IdempotencyConfig{Repo: store.Idempotency()}), func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	headers := map[string]string{IdempotencyKeyHeader: "retry-me"}
	assert.Equal(t, http.StatusUnprocessableEntity, perform(router, http.MethodPost, "/sales", nil, headers).Code)
	assert.Equal(t, http.StatusCreated, perform(router, http.MethodPost, "/sales", nil, headers).Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_KeyReusedOnOtherEndpoint(t *testing.T) {
	store := memory.NewStore()
	userID, tenantID := uuid.New(), uuid.New()

	router := gin.New()
	router.Use(withIdentity(userID, tenantID))
	idem := Idempotency(IdempotencyConfig{Repo: store.Idempotency()})
	router.POST("/sales", idem, func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })
	router.POST("/customers", idem, func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })

	headers := map[string]string{IdempotencyKeyHeader: "shared"}
	assert.Equal(t, http.StatusCreated, perform(router, http.MethodPost, "/sales", nil, headers).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, perform(router, http.MethodPost, "/customers", nil, headers).Code)
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var ctxRequestID interface{}
	router := gin.New()
	router.Use(LoggerMiddleware(zap.New(core)))
	router.GET("/ping", func(c *gin.Context) {
		ctxRequestID = c.Request.Context().Value(events.RequestIDKey)
		c.Status(http.StatusOK)
	})
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := perform(router, http.MethodGet, "/ping?page=2", nil, map[string]string{"X-Request-ID": "req-42"})
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", ctxRequestID)

	w = perform(router, http.MethodGet, "/missing", nil, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ping?page=2", entries[0].ContextMap()["path"])
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	router := gin.New()
	router.Use(MetricsMiddleware(m))
	router.GET("/sales/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(router, http.MethodGet, "/sales/"+uuid.NewString(), nil, nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `salon_http_requests_total{method="GET",route="/sales/:id",status="200"} 1`)
}
