package models

import "time"

// InventoryItem is the stock level of one active menu item. A delivery needs
// one unit of every active item, so the scarcest item gates availability.
// Stock is mutated with guarded relative decrements and never goes negative.
type InventoryItem struct {
	ID       string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name     string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Stock    int    `gorm:"column:stock;not null;default:0" json:"stock"`
	IsActive bool   `gorm:"column:is_active;not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "inventory_item"
}
