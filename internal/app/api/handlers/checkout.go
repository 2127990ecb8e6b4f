package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/fatmeal/commerce/internal/app/service/checkout"
	"github.com/fatmeal/commerce/pkg/logctx"
	"github.com/fatmeal/commerce/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary      Create Checkout Order
// @Description  Places a one-time order (e.g. the trial box). Inventory is checked and consumed immediately.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body checkout.CreateOrderRequest true "Order request"
// @Success      200  {object}  handlers.RespOrder
// @Router       /api/v1/checkout/orders [post]
// ApiCreateCheckoutOrder handles POST /api/v1/checkout/orders
func ApiCreateCheckoutOrder(svc *checkout.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ProductID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing product_id"))
			return
		}

		order, err := svc.CreateOrder(c.Request.Context(), &req, time.Now())
		if err != nil {
			if errors.Is(err, checkout.ErrUnknownProduct) || errors.Is(err, checkout.ErrOutOfStock) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			logctx.FromGin(c, log).Errorw("checkout_order_error", "error", err.Error())
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(order))
	}
}

func RegisterCheckoutRoutes(r gin.IRouter, svc *checkout.Service, log *zap.SugaredLogger) {
	r.POST("/orders", ApiCreateCheckoutOrder(svc, log))
}
