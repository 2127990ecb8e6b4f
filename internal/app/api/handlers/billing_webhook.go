package handlers

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fatmeal/commerce/internal/app/service/billing"
	"github.com/fatmeal/commerce/internal/app/service/schedule"
	cfgpkg "github.com/fatmeal/commerce/pkg/config"
	"github.com/fatmeal/commerce/pkg/logctx"
	"github.com/fatmeal/commerce/pkg/response"

	"github.com/gin-gonic/gin"
)

const webhookSecretHeader = "X-Webhook-Secret"

// @Summary      Billing Webhook
// @Description  Handles subscription lifecycle events from the billing provider. The request must carry the shared secret in X-Webhook-Secret.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body billing.Event true "Billing event payload"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/billing/webhook [post]
// ApiBillingWebhook handles billing provider event deliveries
func ApiBillingWebhook(p *billing.Processor, cfg *cfgpkg.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader(webhookSecretHeader)
		if cfg.Billing.WebhookSecret == "" ||
			subtle.ConstantTimeCompare([]byte(secret), []byte(cfg.Billing.WebhookSecret)) != 1 {
			logctx.FromGin(c, p.Logger).Warnw("webhook_auth_failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid webhook secret"))
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		logctx.FromGin(c, p.Logger).Infow("webhook_billing_received")

		err = p.Process(c.Request.Context(), body, c.GetString("traceID"), time.Now())
		switch {
		case err == nil:
			logctx.FromGin(c, p.Logger).Infow("webhook_billing_handled")
			c.JSON(http.StatusOK, response.OKT[any](nil))
		case errors.Is(err, billing.ErrUnsupportedEvent):
			// Acknowledge so the provider stops re-delivering event types we
			// deliberately ignore.
			logctx.FromGin(c, p.Logger).Infow("webhook_billing_ignored", "error", err.Error())
			c.JSON(http.StatusOK, response.OKT[any](nil))
		case errors.Is(err, billing.ErrMalformedEvent), errors.Is(err, schedule.ErrInvalidPlan):
			logctx.FromGin(c, p.Logger).Errorw("webhook_billing_rejected", "error", err.Error())
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
		default:
			logctx.FromGin(c, p.Logger).Errorw("webhook_billing_handle_error", "error", err.Error())
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
		}
	}
}

func RegisterBillingWebhookRoutes(r gin.IRouter, p *billing.Processor, cfg *cfgpkg.Config) {
	// Mount under provided group, expected at "/api/v1/billing"
	r.POST("/webhook", ApiBillingWebhook(p, cfg))
}
