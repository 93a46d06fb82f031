package models

import "time"

// PaymentMethod is stored card metadata. Only the last four digits of a card number are kept.
type PaymentMethod struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string    `json:"userId" gorm:"type:varchar(36);index;not null"`
	Type           string    `json:"type" gorm:"type:varchar(20);default:card"`
	CardType       string    `json:"cardType" gorm:"type:varchar(20)"`
	Last4          string    `json:"last4" gorm:"type:varchar(4)"`
	ExpiryMonth    string    `json:"expiryMonth" gorm:"type:varchar(2)"`
	ExpiryYear     string    `json:"expiryYear" gorm:"type:varchar(4)"`
	CardHolderName string    `json:"cardHolderName" gorm:"type:varchar(100)"`
	IsDefault      bool      `json:"isDefault"`
	CreatedAt      time.Time `json:"createdAt"`
}
