package models

import "time"

const DefaultOutfitName = "My AI Outfit"

// OutfitItem is a denormalized copy of one recommended piece.
type OutfitItem struct {
	Category  string  `json:"category" bson:"category"`
	Name      string  `json:"name" bson:"name"`
	Color     string  `json:"color" bson:"color"`
	Reason    string  `json:"reason,omitempty" bson:"reason,omitempty"`
	ProductID string  `json:"productId,omitempty" bson:"productId,omitempty"`
	Price     float64 `json:"price,omitempty" bson:"price,omitempty"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
}

// Outfit is a recommendation a user chose to keep.
type Outfit struct {
	ID            string       `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID        string       `json:"userId" gorm:"type:varchar(36);index;not null" bson:"userId"`
	Name          string       `json:"name" gorm:"type:varchar(100)" bson:"name"`
	MainProductID string       `json:"mainProductId,omitempty" gorm:"type:varchar(36)" bson:"mainProductId,omitempty"`
	Items         []OutfitItem `json:"items" gorm:"serializer:json;type:text" bson:"items"`
	StyleAdvice   string       `json:"styleAdvice,omitempty" gorm:"type:text" bson:"styleAdvice,omitempty"`
	CreatedAt     time.Time    `json:"createdAt" bson:"createdAt"`
}
