package types

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled  SubscriptionStatus = "canceled"
	SubscriptionStatusCompleted SubscriptionStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusActive   PaymentStatus = "active"
	PaymentStatusPastDue  PaymentStatus = "past_due"
	PaymentStatusCanceled PaymentStatus = "canceled"
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
)

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusShipped   DeliveryStatus = "shipped"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type OrderSource string

const (
	OrderSourceCheckout             OrderSource = "checkout"
	OrderSourceSubscriptionDelivery OrderSource = "subscription_delivery"
)

// SubscriptionChangeReason labels audit-log rows written on every
// subscription state transition.
type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonCreated       SubscriptionChangeReason = "created"
	SubscriptionChangeReasonRenewed       SubscriptionChangeReason = "renewed"
	SubscriptionChangeReasonUpdated       SubscriptionChangeReason = "updated"
	SubscriptionChangeReasonPaymentFailed SubscriptionChangeReason = "paymentFailed"
	SubscriptionChangeReasonDeleted       SubscriptionChangeReason = "deleted"
	SubscriptionChangeReasonDelivered     SubscriptionChangeReason = "delivered"
	SubscriptionChangeReasonCompleted     SubscriptionChangeReason = "completed"
)
