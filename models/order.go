package models

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a placed order. Items and TotalPrice are frozen snapshots taken
// at checkout time; later catalog price changes never touch them. Only
// Status and IsRead change after creation.
type Order struct {
	ID              string      `json:"id"`
	Items           []CartItem  `json:"items"`
	TotalPrice      float64     `json:"total_price"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	Status          OrderStatus `json:"status"`
	Date            string      `json:"date"`
	IsRead          bool        `json:"is_read"`
}
