package models

import (
	"time"

	"github.com/fatmeal/commerce/pkg/types"
)

// ShippingAddress is the customer snapshot embedded into subscriptions and
// orders. Address lookup and validation happen upstream; this service only
// stores what the billing event carried.
type ShippingAddress struct {
	Name       string `gorm:"column:name;type:varchar(128)" json:"name"`
	Email      string `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone      string `gorm:"column:phone;type:varchar(32)" json:"phone"`
	PostalCode string `gorm:"column:postal_code;type:varchar(16)" json:"postal_code"`
	Prefecture string `gorm:"column:prefecture;type:varchar(64)" json:"prefecture"`
	City       string `gorm:"column:city;type:varchar(128)" json:"city"`
	Street     string `gorm:"column:street;type:varchar(255)" json:"street"`
	Building   string `gorm:"column:building;type:varchar(255)" json:"building"`
}

// Subscription is the local mirror of one recurring plan purchase, driven by
// billing-provider lifecycle events and by the fulfillment job. Rows are
// never deleted; canceled subscriptions are retained for history.
type Subscription struct {
	ID                 string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ExternalBillingID  string `gorm:"column:external_billing_id;type:varchar(128);not null;uniqueIndex" json:"external_billing_id"`
	ExternalCustomerID string `gorm:"column:external_customer_id;type:varchar(128)" json:"external_customer_id"`
	PlanID             string `gorm:"column:plan_id;type:varchar(64);not null" json:"plan_id"`

	MealsPerDelivery   int   `gorm:"column:meals_per_delivery;not null" json:"meals_per_delivery"`
	DeliveriesPerMonth int   `gorm:"column:deliveries_per_month;not null" json:"deliveries_per_month"`
	MonthlyTotalAmount int64 `gorm:"column:monthly_total_amount;type:bigint;not null" json:"monthly_total_amount"`

	Status        types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	PaymentStatus types.PaymentStatus      `gorm:"column:payment_status;type:varchar(32);not null" json:"payment_status"`

	// TotalDeliveries is the contractual delivery count; CompletedDeliveries
	// only ever grows and never exceeds it.
	TotalDeliveries     int `gorm:"column:total_deliveries;not null" json:"total_deliveries"`
	CompletedDeliveries int `gorm:"column:completed_deliveries;not null;default:0" json:"completed_deliveries"`
	// NextDeliveryNumber is nil once no further deliveries are scheduled.
	NextDeliveryNumber *int `gorm:"column:next_delivery_number" json:"next_delivery_number"`

	CurrentPeriodStart time.Time  `gorm:"column:current_period_start" json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `gorm:"column:current_period_end" json:"current_period_end"`
	StartedAt          time.Time  `gorm:"column:started_at" json:"started_at"`
	CanceledAt         *time.Time `gorm:"column:canceled_at;default:null" json:"canceled_at"`

	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == types.SubscriptionStatusActive
}

// Completed reports whether every contractual delivery has shipped.
func (s *Subscription) Completed() bool {
	return s != nil && s.TotalDeliveries > 0 && s.CompletedDeliveries >= s.TotalDeliveries
}
