package models

import "time"

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusInTransit  = "In Transit"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// OrderItem is a copy of a cart line taken when the order was placed.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"` // Price at the time of order
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Quantity  int     `json:"quantity"`
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Phone         string `json:"phone"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
}

// Order represents a placed customer order. Items never change after creation.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"userId" gorm:"type:varchar(36);index;not null"`
	OrderNumber     string          `json:"orderId" gorm:"uniqueIndex;type:varchar(32);not null"`
	Items           []OrderItem     `json:"items" gorm:"serializer:json;type:text"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	Total           float64         `json:"total"`
	Status          string          `json:"status" gorm:"type:varchar(20);index"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"serializer:json;type:text"`
	PaymentMethod   string          `json:"paymentMethod" gorm:"type:varchar(50)"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusInTransit, OrderStatusCancelled},
	OrderStatusInTransit:  {OrderStatusDelivered},
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
