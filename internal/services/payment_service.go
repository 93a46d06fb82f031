package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"styleshop/internal/apperror"
	"styleshop/internal/models"
	"styleshop/internal/repositories"

	"github.com/google/uuid"
)

// PaymentInput is a card as typed by the user. The full number is never stored.
type PaymentInput struct {
	CardNumber     string
	ExpiryMonth    string
	ExpiryYear     string
	CardHolderName string
	IsDefault      bool
}

type PaymentService struct {
	methods repositories.PaymentRepository
	now     func() time.Time
}

func NewPaymentService(methods repositories.PaymentRepository) *PaymentService {
	return &PaymentService{methods: methods, now: time.Now}
}

// List returns the user's cards, the default one first.
func (s *PaymentService) List(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	methods, err := s.methods.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to list payment methods", err)
	}
	return methods, nil
}

func (s *PaymentService) Add(ctx context.Context, userID string, in PaymentInput) (*models.PaymentMethod, error) {
	number := strings.NewReplacer(" ", "", "-", "").Replace(in.CardNumber)
	if len(number) < 12 || len(number) > 19 || !allDigits(number) {
		return nil, apperror.Validation("Card number must have 12 to 19 digits")
	}
	holder := strings.TrimSpace(in.CardHolderName)
	if holder == "" {
		return nil, apperror.Validation("Card holder name is required")
	}
	month, year, err := s.expiry(in.ExpiryMonth, in.ExpiryYear)
	if err != nil {
		return nil, err
	}

	method := &models.PaymentMethod{
		ID:             uuid.New().String(),
		UserID:         userID,
		Type:           "card",
		CardType:       CardType(number),
		Last4:          number[len(number)-4:],
		ExpiryMonth:    fmt.Sprintf("%02d", month),
		ExpiryYear:     strconv.Itoa(year),
		CardHolderName: holder,
		IsDefault:      in.IsDefault,
	}
	if err := s.methods.Create(ctx, method); err != nil {
		return nil, apperror.Internal("failed to save payment method", err)
	}
	return method, nil
}

func (s *PaymentService) expiry(monthStr, yearStr string) (int, int, error) {
	month, err := strconv.Atoi(strings.TrimSpace(monthStr))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, apperror.Validation("Expiry month must be between 1 and 12")
	}
	yearStr = strings.TrimSpace(yearStr)
	year, err := strconv.Atoi(yearStr)
	if err != nil || (len(yearStr) != 2 && len(yearStr) != 4) {
		return 0, 0, apperror.Validation("Expiry year must have 2 or 4 digits")
	}
	if len(yearStr) == 2 {
		year += 2000
	}
	now := s.now()
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return 0, 0, apperror.Validation("Card has expired")
	}
	return month, year, nil
}

// Delete removes one of the user's cards. Cards of other users are reported as missing.
func (s *PaymentService) Delete(ctx context.Context, userID, id string) error {
	if err := s.methods.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Payment method not found")
		}
		return apperror.Internal("failed to delete payment method", err)
	}
	return nil
}

// CardType guesses the network from the number prefix.
func CardType(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "Visa"
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "Amex"
	case strings.HasPrefix(number, "6011"), strings.HasPrefix(number, "65"):
		return "Discover"
	case inPrefixRange(number, 2, 51, 55), inPrefixRange(number, 4, 2221, 2720):
		return "Mastercard"
	case strings.HasPrefix(number, "60"), strings.HasPrefix(number, "81"), strings.HasPrefix(number, "82"):
		return "RuPay"
	}
	return "Unknown"
}

func inPrefixRange(number string, digits, lo, hi int) bool {
	if len(number) < digits {
		return false
	}
	n, err := strconv.Atoi(number[:digits])
	return err == nil && n >= lo && n <= hi
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
