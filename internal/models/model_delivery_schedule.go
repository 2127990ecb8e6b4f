package models

import (
	"time"

	"github.com/fatmeal/commerce/pkg/types"
)

// DeliverySchedule is one planned shipment of a subscription. Rows are
// created in batches (one batch per billing cycle), flipped pending→shipped
// by the fulfillment job, or pending→cancelled on subscription cancellation.
// A shipped row is never mutated again.
type DeliverySchedule struct {
	ID             string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string `gorm:"column:subscription_id;type:uuid;not null;uniqueIndex:unique_sub_delivery_number,priority:1;index:idx_sub_cycle,priority:1" json:"subscription_id"`
	// DeliveryNumber is 1-based and dense per subscription.
	DeliveryNumber int `gorm:"column:delivery_number;not null;uniqueIndex:unique_sub_delivery_number,priority:2" json:"delivery_number"`

	ScheduledDate    time.Time `gorm:"column:scheduled_date;type:date;not null;index" json:"scheduled_date"`
	MenuSet          string    `gorm:"column:menu_set;type:varchar(64);not null" json:"menu_set"`
	MealsPerDelivery int       `gorm:"column:meals_per_delivery;not null" json:"meals_per_delivery"`
	Quantity         int       `gorm:"column:quantity;not null;default:1" json:"quantity"`

	Status        types.DeliveryStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	DeliveredDate *time.Time           `gorm:"column:delivered_date;type:date;default:null" json:"delivered_date"`
	OrderID       *string              `gorm:"column:order_id;type:uuid;default:null" json:"order_id"`
	// BillingCycleReference ties a batch of rows to the provider charge that
	// paid for them, so re-delivered Renewed events cannot duplicate a batch.
	BillingCycleReference *string `gorm:"column:billing_cycle_reference;type:varchar(128);index:idx_sub_cycle,priority:2" json:"billing_cycle_reference"`

	Subscription *Subscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DeliverySchedule) TableName() string {
	return "delivery_schedule"
}
