package domain

import "time"

// Transaction 购物会话 DTO（一次开门期间的取放动作集合）
type Transaction struct {
	TransactionID string            `json:"transaction_id"`
	DeviceID      string            `json:"device_id"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       *time.Time        `json:"end_time,omitempty"`
	Status        TransactionStatus `json:"status"`
	IsActive      bool              `json:"is_active"`
	Items         []TransactionItem `json:"items,omitempty"`
}

// TransactionItem 会话中的单个取放动作
type TransactionItem struct {
	TransactionItemID string      `json:"transaction_item_id"`
	ProductID         string      `json:"product_id"`
	Quantity          int         `json:"quantity"`
	ActionType        ActionType  `json:"action_type"`
	Product           *ProductRef `json:"product,omitempty"`
}

// ProductRef 交易项关联的商品摘要
type ProductRef struct {
	Name string `json:"name,omitempty"`
}

// TotalQuantity 会话内所有动作的数量合计
func (t *Transaction) TotalQuantity() int {
	total := 0
	for _, item := range t.Items {
		total += item.Quantity
	}
	return total
}

// ActionLabel 会话动作标签：取第一个 item 的 action_type，无 item 时默认 Take
func (t *Transaction) ActionLabel() string {
	if len(t.Items) > 0 {
		return t.Items[0].ActionType.String()
	}
	return ActionTypeAdd.String()
}
