package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/fatmeal/commerce/internal/app/service/fulfillment"
	cfgpkg "github.com/fatmeal/commerce/pkg/config"
	"github.com/fatmeal/commerce/pkg/logctx"
	"github.com/fatmeal/commerce/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary      Run Fulfillment Job
// @Description  Processes every pending delivery due on the given date. Triggered by the external scheduler; safe to re-run for the same date.
// @Tags         Fulfillment
// @Accept       json
// @Produce      json
// @Param        date query string false "Target date (YYYY-MM-DD), defaults to today"
// @Success      200  {object}  handlers.RespFulfillmentSummary
// @Router       /api/v1/fulfillment/run [post]
// ApiRunFulfillment triggers one fulfillment run
func ApiRunFulfillment(svc *fulfillment.Service, cfg *cfgpkg.Config, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if cfg.Fulfillment.JobToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Fulfillment.JobToken)) != 1 {
			logctx.FromGin(c, log).Warnw("fulfillment_auth_failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid job token"))
			return
		}

		date := time.Now()
		if raw := c.Query("date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid date, expected YYYY-MM-DD"))
				return
			}
			date = parsed
		}

		sum, err := svc.Run(c.Request.Context(), date)
		if err != nil {
			logctx.FromGin(c, log).Errorw("fulfillment_run_error", "error", err.Error())
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sum))
	}
}

func RegisterFulfillmentRoutes(r gin.IRouter, svc *fulfillment.Service, cfg *cfgpkg.Config, log *zap.SugaredLogger) {
	r.POST("/run", ApiRunFulfillment(svc, cfg, log))
}
