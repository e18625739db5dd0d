package model

import "time"

// Order is a completed purchase. Amounts are in cents.
type Order struct {
	ID          int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string      `json:"userId" gorm:"type:varchar(64);index;not null"`
	TotalAmount int64       `json:"totalAmount" gorm:"not null"`
	Status      string      `json:"status" gorm:"type:varchar(32);default:completed"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// TableName maps Order to the orders table.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID        int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   int64 `json:"orderId" gorm:"index;not null"`
	ProductID int64 `json:"productId" gorm:"index;not null"`
	Quantity  int   `json:"quantity" gorm:"default:1"`
	UnitPrice int64 `json:"unitPrice" gorm:"not null"`
}

// TableName maps OrderItem to the order_items table.
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderSummary is the compact order view used for personalization.
type OrderSummary struct {
	OrderID     int64     `json:"orderId"`
	TotalAmount int64     `json:"totalAmount"`
	ProductIDs  []int64   `json:"productIds"`
	CreatedAt   time.Time `json:"createdAt"`
}
