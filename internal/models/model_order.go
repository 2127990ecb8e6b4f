package models

import (
	"time"

	"github.com/fatmeal/commerce/pkg/types"
)

// Order is an immutable fulfillment record: either a one-time checkout
// purchase or the shipment of a single subscription delivery. The customer
// address is snapshotted at creation time.
type Order struct {
	ID     string            `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Number string            `gorm:"column:number;type:varchar(64);not null;uniqueIndex" json:"number"`
	Source types.OrderSource `gorm:"column:source;type:varchar(32);not null;index" json:"source"`

	Customer ShippingAddress `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`

	MenuSet  string `gorm:"column:menu_set;type:varchar(64);not null" json:"menu_set"`
	Quantity int    `gorm:"column:quantity;not null" json:"quantity"`
	Amount   int64  `gorm:"column:amount;type:bigint;not null" json:"amount"`

	Status types.OrderStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "order"
}
