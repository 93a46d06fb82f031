package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"styleshop/internal/apperror"
	"styleshop/internal/identity"
	"styleshop/internal/models"
	"styleshop/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// SignupInput is the data needed to create an account.
type SignupInput struct {
	Name           string
	Email          string
	Password       string
	Gender         string
	PreferredStyle string
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	users     repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	log       logrus.FieldLogger
}

// NewAuthService creates a new AuthService. A zero tokenTTL means 24 hours.
func NewAuthService(users repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, log logrus.FieldLogger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Signup registers a new user, hashes their password, and saves them to the database.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperror.Validation("User already exists")
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Internal("failed to look up user", err)
	}

	gender := in.Gender
	if gender == "" {
		gender = models.GenderUnisex
	}
	if !models.ValidGender(gender) {
		return nil, apperror.Validation("Gender must be one of Men, Women, Unisex")
	}
	style := strings.TrimSpace(in.PreferredStyle)
	if style == "" {
		style = models.DefaultStyle
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		Password:       string(hashed),
		Gender:         gender,
		PreferredStyle: style,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Validation("User already exists")
		}
		return nil, apperror.Internal("failed to register user", err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login authenticates a user and returns a signed JWT with the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, apperror.Unauthorized("Invalid credentials")
		}
		return "", nil, apperror.Internal("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, apperror.Internal("failed to generate token", err)
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses and validates a JWT token and returns the caller it
// names. Tokens of deleted accounts are rejected.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (identity.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.WithError(err).Debug("token validation failed")
		return identity.Identity{}, apperror.Unauthorized("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return identity.Identity{}, apperror.Unauthorized("Invalid or expired token")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return identity.Identity{}, apperror.Unauthorized("Invalid or expired token")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return identity.Identity{}, apperror.Unauthorized("Invalid or expired token")
		}
		return identity.Identity{}, apperror.Internal("failed to look up user", err)
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return identity.Identity{UserID: userID, Email: email, Name: name}, nil
}
