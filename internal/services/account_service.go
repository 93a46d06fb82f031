package services

import (
	"context"
	"errors"
	"strings"

	"styleshop/internal/apperror"
	"styleshop/internal/models"
	"styleshop/internal/repositories"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ProfilePatch holds the profile fields a user may change. Nil fields are left alone.
type ProfilePatch struct {
	Name           *string
	Image          *string
	Gender         *string
	PreferredStyle *string
}

// AccountService manages the signed-in user's own account.
type AccountService struct {
	users   repositories.UserRepository
	outfits repositories.OutfitRepository
	log     logrus.FieldLogger
}

func NewAccountService(users repositories.UserRepository, outfits repositories.OutfitRepository, log logrus.FieldLogger) *AccountService {
	return &AccountService{users: users, outfits: outfits, log: log}
}

// Profile returns the user without the password hash.
func (s *AccountService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.Validation("Name cannot be empty")
		}
		user.Name = name
	}
	if patch.Image != nil {
		user.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.Gender != nil {
		if !models.ValidGender(*patch.Gender) {
			return nil, apperror.Validation("Gender must be one of Men, Women, Unisex")
		}
		user.Gender = *patch.Gender
	}
	if patch.PreferredStyle != nil {
		if style := strings.TrimSpace(*patch.PreferredStyle); style != "" {
			user.PreferredStyle = style
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperror.Internal("failed to update profile", err)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return apperror.Validation("Current password is incorrect")
	}
	if len(next) < 6 {
		return apperror.Validation("New password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}
	user.Password = string(hashed)
	if err := s.users.Update(ctx, user); err != nil {
		return apperror.Internal("failed to update password", err)
	}
	return nil
}

// DeleteAccount removes the user with their cart, wishlist, payment methods
// and saved outfits. Orders are kept. The relational store drops all of it in
// one transaction; outfits in a document store are removed afterwards, and a
// failure there is logged without failing the request.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal("failed to delete account", err)
	}
	if err := s.outfits.DeleteByUser(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("outfits of removed user left behind")
	}
	s.log.WithField("user_id", userID).Info("account deleted")
	return nil
}
