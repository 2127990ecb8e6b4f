package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fatmeal/commerce/docs"
	"github.com/fatmeal/commerce/internal/app/api/handlers"
	mw "github.com/fatmeal/commerce/internal/app/api/middleware"
	"github.com/fatmeal/commerce/internal/app/service/billing"
	"github.com/fatmeal/commerce/internal/app/service/checkout"
	"github.com/fatmeal/commerce/internal/app/service/fulfillment"
	"github.com/fatmeal/commerce/internal/app/service/inventory"
	"github.com/fatmeal/commerce/internal/app/service/stats"
	"github.com/fatmeal/commerce/internal/repository"
	cfgpkg "github.com/fatmeal/commerce/pkg/config"
	metrics "github.com/fatmeal/commerce/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	billingProc *billing.Processor,
	fulfillSvc *fulfillment.Service,
	checkoutSvc *checkout.Service,
	statsSvc *stats.Service,
	inv *inventory.Service,
	subs repository.SubscriptionRepository,
	schedules repository.DeliveryScheduleRepository,
) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	// Billing provider webhook, authenticated by shared secret inside the handler
	handlers.RegisterBillingWebhookRoutes(apiV1.Group("/billing"), billingProc, cfg)

	// Fulfillment job trigger, authenticated by bearer token inside the handler
	handlers.RegisterFulfillmentRoutes(apiV1.Group("/fulfillment"), fulfillSvc, cfg, log)

	// Storefront checkout
	handlers.RegisterCheckoutRoutes(apiV1.Group("/checkout"), checkoutSvc, log)

	// Admin APIs
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), subs, schedules, statsSvc, inv)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
