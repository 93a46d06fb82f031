package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"styleshop/internal/apperror"
	"styleshop/internal/models"
	"styleshop/internal/repositories"

	"github.com/google/uuid"
)

// OutfitService keeps the recommendations users decided to save.
type OutfitService struct {
	outfits repositories.OutfitRepository
}

func NewOutfitService(outfits repositories.OutfitRepository) *OutfitService {
	return &OutfitService{outfits: outfits}
}

func (s *OutfitService) List(ctx context.Context, userID string) ([]models.Outfit, error) {
	outfits, err := s.outfits.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to list outfits", err)
	}
	if outfits == nil {
		outfits = []models.Outfit{}
	}
	return outfits, nil
}

// Save stores a copy of outfit for the user. An outfit needs at least one item.
func (s *OutfitService) Save(ctx context.Context, userID string, outfit models.Outfit) (*models.Outfit, error) {
	if len(outfit.Items) == 0 {
		return nil, apperror.Validation("Outfit must contain at least one item")
	}
	outfit.ID = uuid.New().String()
	outfit.UserID = userID
	outfit.Name = strings.TrimSpace(outfit.Name)
	if outfit.Name == "" {
		outfit.Name = models.DefaultOutfitName
	}
	outfit.CreatedAt = time.Now().UTC()
	if err := s.outfits.Create(ctx, &outfit); err != nil {
		return nil, apperror.Internal("failed to save outfit", err)
	}
	return &outfit, nil
}

func (s *OutfitService) Delete(ctx context.Context, userID, id string) error {
	if err := s.outfits.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Outfit not found")
		}
		return apperror.Internal("failed to delete outfit", err)
	}
	return nil
}
