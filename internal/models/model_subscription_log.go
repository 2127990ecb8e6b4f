package models

import (
	"time"

	"github.com/fatmeal/commerce/pkg/types"

	"gorm.io/datatypes"
)

// SubscriptionLog records changes to subscriptions.
// Use case: troubleshooting.
type SubscriptionLog struct {
	ID             string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string `gorm:"column:subscription_id;type:uuid;index:idx_subscription_id_id,priority:1;not null"`
	// Reason is the change reason.
	Reason types.SubscriptionChangeReason `gorm:"column:reason;type:varchar(64);not null"`
	// Before stores subscription data before the change in JSON format.
	Before datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb;default:'null'"`
	// After stores subscription data after the change in JSON format.
	After datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb;default:'null'"`
	// Extra stores additional context such as the triggering event id.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt time.Time
}

func (SubscriptionLog) TableName() string {
	return "subscription_log"
}
