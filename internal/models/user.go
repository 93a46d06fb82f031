package models

import "time"

const (
	GenderMen    = "Men"
	GenderWomen  = "Women"
	GenderUnisex = "Unisex"

	DefaultStyle = "Casual"
)

// User represents a shopper account.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name           string    `json:"name" gorm:"type:varchar(100)"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password       string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	Image          string    `json:"image,omitempty" gorm:"type:varchar(500)"`
	Gender         string    `json:"gender" gorm:"type:varchar(10);default:Unisex"`
	PreferredStyle string    `json:"preferredStyle" gorm:"type:varchar(50);default:Casual"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ValidGender reports whether g is one of the supported gender values.
func ValidGender(g string) bool {
	switch g {
	case GenderMen, GenderWomen, GenderUnisex:
		return true
	}
	return false
}
