package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/models"
	"ingresso-platform/internal/utils"
)

// AuthUserRepository covers the user data operations authentication needs
type AuthUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Claims is the JWT payload carried by every authenticated request
type Claims struct {
	UserID    int    `json:"user_id"`
	TaxID     string `json:"tax_id"`
	Organizer bool   `json:"organizer"`
	jwt.StandardClaims
}

// AuthService handles registration, login and token issuance
type AuthService struct {
	userRepo  AuthUserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo AuthUserRepository, jwtSecret string, tokenTTL time.Duration, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = logrus.New()
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// AuthResponse carries the issued token and the account it belongs to
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and logs it in
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		TaxID:        models.NormalizeTaxID(req.TaxID),
		Email:        req.Email,
		PasswordHash: hash,
		Organizer:    req.Organizer,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: email or tax id already registered", models.ErrInvalidRequest)
		}
		return nil, err
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"organizer": user.Organizer,
	}).Info("User registered")

	return &AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrInvalidRequest)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrUnauthenticated
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, models.ErrUnauthenticated
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// GenerateToken signs a JWT for the user
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    user.ID,
		TaxID:     user.TaxID,
		Organizer: user.Organizer,
		StandardClaims: jwt.StandardClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token's signature and expiry and returns its claims
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthenticated
	}
	return claims, nil
}

// GetUser loads the account behind a set of claims
func (s *AuthService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
