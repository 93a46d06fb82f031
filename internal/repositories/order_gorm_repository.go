package repositories

import (
	"context"
	"fmt"

	"styleshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// PlaceOrder creates the order and clears the cart atomically.
func (r *GORMOrderRepository) PlaceOrder(ctx context.Context, userID string, build OrderBuilder) (*models.Order, error) {
	var placed *models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Cart
		// the row lock makes a concurrent checkout of the same cart wait and then see it empty
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "user_id = ?", userID).Error; err != nil {
			if notFound(err) {
				return ErrCartEmpty
			}
			return fmt.Errorf("failed to load cart of user %s: %w", userID, err)
		}
		if len(c.Items) == 0 {
			return ErrCartEmpty
		}

		order, err := build(c.Items)
		if err != nil {
			return err
		}
		if order.ID == "" {
			order.ID = uuid.New().String()
		}
		order.UserID = userID
		if err := tx.Create(order).Error; err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("order number %s: %w", order.OrderNumber, ErrDuplicate)
			}
			return fmt.Errorf("failed to create order: %w", err)
		}

		c.Items = []models.CartItem{}
		if err := tx.Save(&c).Error; err != nil {
			return fmt.Errorf("failed to clear cart of user %s: %w", userID, err)
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// List retrieves every order, newest first.
func (r *GORMOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListByUser retrieves the orders of one user, newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of user %s: %w", userID, err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByNumber retrieves a single order by its human-readable number.
func (r *GORMOrderRepository) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	return r.first(ctx, "order_number = ?", number)
}

func (r *GORMOrderRepository) first(ctx context.Context, query string, arg string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, query, arg).Error; err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("order %s: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", arg, err)
	}
	return &order, nil
}

// UpdateStatus sets the status of an order.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return nil
}
