package repositories

import (
	"context"
	"fmt"

	"styleshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOutfitRepository is a GORM implementation of OutfitRepository.
type GORMOutfitRepository struct {
	db *gorm.DB
}

// NewGORMOutfitRepository creates a new instance of GORMOutfitRepository.
func NewGORMOutfitRepository(db *gorm.DB) *GORMOutfitRepository {
	return &GORMOutfitRepository{db: db}
}

func (r *GORMOutfitRepository) ListByUser(ctx context.Context, userID string) ([]models.Outfit, error) {
	var outfits []models.Outfit
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&outfits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list outfits of user %s: %w", userID, err)
	}
	return outfits, nil
}

func (r *GORMOutfitRepository) Create(ctx context.Context, outfit *models.Outfit) error {
	if outfit.ID == "" {
		outfit.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(outfit).Error; err != nil {
		return fmt.Errorf("failed to create outfit: %w", err)
	}
	return nil
}

func (r *GORMOutfitRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Outfit{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete outfit %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("outfit %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMOutfitRepository) DeleteByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Outfit{}).Error; err != nil {
		return fmt.Errorf("failed to delete outfits of user %s: %w", userID, err)
	}
	return nil
}

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

func (r *GORMPaymentRepository) ListByUser(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").
		Find(&methods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods of user %s: %w", userID, err)
	}
	return methods, nil
}

func (r *GORMPaymentRepository) Create(ctx context.Context, method *models.PaymentMethod) error {
	if method.ID == "" {
		method.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PaymentMethod{}).Where("user_id = ?", method.UserID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count payment methods: %w", err)
		}
		if count == 0 {
			method.IsDefault = true
		}
		if method.IsDefault {
			err := tx.Model(&models.PaymentMethod{}).
				Where("user_id = ? AND is_default = ?", method.UserID, true).
				Update("is_default", false).Error
			if err != nil {
				return fmt.Errorf("failed to reset default payment method: %w", err)
			}
		}
		if err := tx.Create(method).Error; err != nil {
			return fmt.Errorf("failed to create payment method: %w", err)
		}
		return nil
	})
}

func (r *GORMPaymentRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var method models.PaymentMethod
		if err := tx.First(&method, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if notFound(err) {
				return fmt.Errorf("payment method %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to get payment method %s: %w", id, err)
		}
		if err := tx.Delete(&method).Error; err != nil {
			return fmt.Errorf("failed to delete payment method %s: %w", id, err)
		}
		if !method.IsDefault {
			return nil
		}

		var next models.PaymentMethod
		err := tx.Where("user_id = ?", userID).Order("created_at DESC").First(&next).Error
		if notFound(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to find replacement default: %w", err)
		}
		if err := tx.Model(&next).Update("is_default", true).Error; err != nil {
			return fmt.Errorf("failed to promote payment method %s: %w", next.ID, err)
		}
		return nil
	})
}
