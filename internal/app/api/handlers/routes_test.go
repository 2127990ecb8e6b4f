package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatmeal/commerce/internal/app/service/billing"
	cfgpkg "github.com/fatmeal/commerce/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &cfgpkg.Config{}
	log := zap.NewNop().Sugar()

	RegisterBillingWebhookRoutes(r.Group("/api/v1/billing"), nil, cfg)
	RegisterFulfillmentRoutes(r.Group("/api/v1/fulfillment"), nil, cfg, log)
	RegisterCheckoutRoutes(r.Group("/api/v1/checkout"), nil, log)
	RegisterAdminRoutes(r.Group("/api/v1/admin"), nil, nil, nil, nil)
	RegisterHealthRoutes(r.Group("/"))

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/billing/webhook"))
	require.True(t, contains("POST /api/v1/fulfillment/run"))
	require.True(t, contains("POST /api/v1/checkout/orders"))
	require.True(t, contains("POST /api/v1/admin/get_subscription"))
	require.True(t, contains("POST /api/v1/admin/list_due_deliveries"))
	require.True(t, contains("POST /api/v1/admin/get_overview"))
	require.True(t, contains("POST /api/v1/admin/list_orders"))
	require.True(t, contains("POST /api/v1/admin/list_inventory"))
	require.True(t, contains("POST /api/v1/admin/create_inventory_item"))
	require.True(t, contains("POST /api/v1/admin/restock_inventory"))
	require.True(t, contains("GET /healthz"))
}

func TestApiBillingWebhook_RejectsBadSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &cfgpkg.Config{Billing: cfgpkg.BillingConfig{WebhookSecret: "topsecret"}}
	p := billing.NewProcessor(nil, nil, zap.NewNop().Sugar())
	RegisterBillingWebhookRoutes(r.Group("/api/v1/billing"), p, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", strings.NewReader(`{}`))
	req.Header.Set("X-Webhook-Secret", "wrong")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApiBillingWebhook_RejectsWhenSecretUnconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	p := billing.NewProcessor(nil, nil, zap.NewNop().Sugar())
	RegisterBillingWebhookRoutes(r.Group("/api/v1/billing"), p, &cfgpkg.Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApiRunFulfillment_RejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &cfgpkg.Config{Fulfillment: cfgpkg.FulfillmentConfig{JobToken: "job-token"}}
	RegisterFulfillmentRoutes(r.Group("/api/v1/fulfillment"), nil, cfg, zap.NewNop().Sugar())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fulfillment/run", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
