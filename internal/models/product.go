package models

import "time"

// Categories is the allow-list a product category must belong to.
var Categories = []string{
	"shirt", "pants", "shoes", "accessory", "outerwear",
	"Dresses", "Tops", "Bottoms", "Bags", "Accessories", "Outerwear",
	"New Arrivals", "Essentials", "Best Sellers", "Seasonal",
	"Activewear", "Formalwear", "Footwear", "Style Guides",
}

// ValidCategory reports whether c is in Categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// Product represents a catalog item.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(150);index" validate:"required,min=2,max=150"`
	Description string    `json:"description" gorm:"type:text" validate:"max=2000"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Category    string    `json:"category" gorm:"type:varchar(50);index" validate:"required"`
	Brand       string    `json:"brand,omitempty" gorm:"type:varchar(100)"`
	Match       string    `json:"match,omitempty" gorm:"type:varchar(20)"`
	ImageURL    string    `json:"imageUrl,omitempty" gorm:"type:varchar(500)"`
	Images      []string  `json:"images" gorm:"serializer:json;type:text"`
	Tags        []string  `json:"tags" gorm:"serializer:json;type:text"`
	Stock       int       `json:"stock" validate:"gte=0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PrimaryImage returns the image used for cart and order snapshots.
func (p *Product) PrimaryImage() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// Collection groups products for merchandising.
type Collection struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string `json:"name" gorm:"index;type:varchar(100)"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(100)"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string `json:"imageUrl,omitempty" gorm:"type:varchar(500)"`
	Featured    bool   `json:"featured" gorm:"index"`
}
