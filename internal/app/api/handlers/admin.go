package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/fatmeal/commerce/internal/app/service/inventory"
	"github.com/fatmeal/commerce/internal/app/service/schedule"
	"github.com/fatmeal/commerce/internal/app/service/stats"
	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/internal/repository"
	"github.com/fatmeal/commerce/pkg/response"

	"github.com/gin-gonic/gin"
)

type GetSubscriptionRequest struct {
	ExternalBillingID string `json:"external_billing_id"`
}

type GetSubscriptionResponse struct {
	Subscription *models.Subscription       `json:"subscription"`
	Deliveries   []*models.DeliverySchedule `json:"deliveries"`
}

// @Summary      Get Subscription (Admin)
// @Description  Retrieves a subscription and its full delivery schedule by external billing id.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body GetSubscriptionRequest true "Lookup request"
// @Success      200  {object}  handlers.RespGetSubscription
// @Router       /api/v1/admin/get_subscription [post]
func ApiGetSubscription(subs repository.SubscriptionRepository, schedules repository.DeliveryScheduleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GetSubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ExternalBillingID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing external_billing_id"))
			return
		}

		sub, err := subs.GetByExternalBillingID(c.Request.Context(), req.ExternalBillingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "subscription not found"))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		rows, err := schedules.ListBySubscription(c.Request.Context(), sub.ID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&GetSubscriptionResponse{Subscription: sub, Deliveries: rows}))
	}
}

type ListDueDeliveriesRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to today
}

type ListDueDeliveriesResponse struct {
	Items []*models.DeliverySchedule `json:"items"`
	Date  string                     `json:"date"`
}

// @Summary      List Due Deliveries (Admin)
// @Description  Lists pending deliveries scheduled on the given date.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListDueDeliveriesRequest true "Date request"
// @Success      200  {object}  handlers.RespListDueDeliveries
// @Router       /api/v1/admin/list_due_deliveries [post]
func ApiListDueDeliveries(schedules repository.DeliveryScheduleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListDueDeliveriesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		date := time.Now()
		if req.Date != "" {
			parsed, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid date, expected YYYY-MM-DD"))
				return
			}
			date = parsed
		}
		day := schedule.DateOf(date)

		rows, err := schedules.ListDueOn(c.Request.Context(), day)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListDueDeliveriesResponse{Items: rows, Date: day.Format("2006-01-02")}))
	}
}

type GetOverviewRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to today
}

// @Summary      Get Operational Overview (Admin)
// @Description  Retrieves subscription, delivery and order counters as of a date.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body GetOverviewRequest true "Date request"
// @Success      200  {object}  handlers.RespOverview
// @Router       /api/v1/admin/get_overview [post]
func ApiGetOverview(svc *stats.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GetOverviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		date := time.Now()
		if req.Date != "" {
			parsed, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid date, expected YYYY-MM-DD"))
				return
			}
			date = parsed
		}

		out, err := svc.GetOverview(c.Request.Context(), date)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      List Orders (Admin)
// @Description  Retrieves a paginated and filterable list of orders.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body stats.ScanOrdersRequest true "List orders request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListOrders
// @Router       /api/v1/admin/list_orders [post]
func ApiListOrders(svc *stats.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req stats.ScanOrdersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanOrders(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type ListInventoryResponse struct {
	Items []*models.InventoryItem `json:"items"`
}

// @Summary      List Inventory (Admin)
// @Description  Lists all menu items with their stock levels.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.RespListInventory
// @Router       /api/v1/admin/list_inventory [post]
func ApiListInventory(svc *inventory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListInventoryResponse{Items: items}))
	}
}

type CreateInventoryItemRequest struct {
	Name     string `json:"name"`
	Stock    int    `json:"stock"`
	IsActive bool   `json:"is_active"`
}

// @Summary      Create Inventory Item (Admin)
// @Description  Registers a new menu item with an initial stock level.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body CreateInventoryItemRequest true "New item"
// @Success      200  {object}  handlers.RespInventoryItem
// @Router       /api/v1/admin/create_inventory_item [post]
func ApiCreateInventoryItem(svc *inventory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateInventoryItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		item, err := svc.CreateItem(c.Request.Context(), req.Name, req.Stock, req.IsActive)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(item))
	}
}

type RestockInventoryRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// @Summary      Restock Inventory (Admin)
// @Description  Adds stock to one menu item.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body RestockInventoryRequest true "Restock request"
// @Success      200  {object}  handlers.RespInventoryItem
// @Router       /api/v1/admin/restock_inventory [post]
func ApiRestockInventory(svc *inventory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RestockInventoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id"))
			return
		}
		item, err := svc.Restock(c.Request.Context(), req.ID, req.Quantity)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "item not found"))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(item))
	}
}

func RegisterAdminRoutes(
	r gin.IRouter,
	subs repository.SubscriptionRepository,
	schedules repository.DeliveryScheduleRepository,
	statsSvc *stats.Service,
	inv *inventory.Service,
) {
	r.POST("/get_subscription", ApiGetSubscription(subs, schedules))
	r.POST("/list_due_deliveries", ApiListDueDeliveries(schedules))
	r.POST("/get_overview", ApiGetOverview(statsSvc))
	r.POST("/list_orders", ApiListOrders(statsSvc))
	r.POST("/list_inventory", ApiListInventory(inv))
	r.POST("/create_inventory_item", ApiCreateInventoryItem(inv))
	r.POST("/restock_inventory", ApiRestockInventory(inv))
}
