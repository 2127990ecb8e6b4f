package handlers

import (
	"github.com/fatmeal/commerce/internal/app/service/fulfillment"
	"github.com/fatmeal/commerce/internal/app/service/stats"
	"github.com/fatmeal/commerce/internal/models"
	"github.com/fatmeal/commerce/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespOrder wraps a created order in the standard envelope.
type RespOrder struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Order             `json:"data"`
}

// RespFulfillmentSummary wraps a fulfillment run summary in the standard envelope.
type RespFulfillmentSummary struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    fulfillment.Summary      `json:"data"`
}

// RespGetSubscription wraps GetSubscriptionResponse in the standard envelope.
type RespGetSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    GetSubscriptionResponse  `json:"data"`
}

// RespListDueDeliveries wraps ListDueDeliveriesResponse in the standard envelope.
type RespListDueDeliveries struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    ListDueDeliveriesResponse `json:"data"`
}

// RespOverview wraps the operational overview in the standard envelope.
type RespOverview struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    stats.Overview           `json:"data"`
}

// RespListOrders wraps ScanOrdersResponse in the standard envelope.
type RespListOrders struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    stats.ScanOrdersResponse `json:"data"`
}

// RespListInventory wraps ListInventoryResponse in the standard envelope.
type RespListInventory struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListInventoryResponse    `json:"data"`
}

// RespInventoryItem wraps a single inventory item in the standard envelope.
type RespInventoryItem struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.InventoryItem     `json:"data"`
}
