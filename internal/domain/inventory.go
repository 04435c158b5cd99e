package domain

import "time"

// InventoryItem 设备库存项 DTO
type InventoryItem struct {
	ProductID       string     `json:"product_id"`
	ProductName     string     `json:"product_name"`
	BrandName       string     `json:"brand_name,omitempty"`
	CurrentStock    int        `json:"current_stock"`
	CriticStock     int        `json:"critic_stock"`
	LastStockUpdate *time.Time `json:"last_stock_update,omitempty"`
}

// IsLowStock 库存低于临界值才算 Low（等于临界值是 OK）
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock < i.CriticStock
}

// StockLabel 库存状态展示文案
func (i *InventoryItem) StockLabel() string {
	if i.IsLowStock() {
		return "Low"
	}
	return "OK"
}
