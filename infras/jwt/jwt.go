package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"leadtime/config"
	"leadtime/shared/timezone"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

// TokenType represents the purpose a token was minted for
type TokenType string

const (
	CancelToken TokenType = "cancel"
)

// Claims is the payload of a self-service cancellation token. The token is
// minted when a booking is committed and travels inside the confirmation
// notification; presenting it back is the only way a visitor can cancel.
type Claims struct {
	ReservationID string    `json:"reservation_id"`
	TokenID       string    `json:"token_id"`
	Type          TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Tokens mints and validates signed booking tokens.
type Tokens interface {
	GenerateCancelToken(reservationID string) (string, error)
	ValidateCancelToken(tokenString string) (*Claims, error)
}

type Service struct {
	config *config.Config
}

// New creates a new token service
func New(cfg *config.Config) Tokens {
	return &Service{
		config: cfg,
	}
}

// GenerateCancelToken mints a cancellation token bound to one reservation.
func (s *Service) GenerateCancelToken(reservationID string) (string, error) {
	now := timezone.Now()
	expiresAt := now.Add(time.Duration(s.config.Booking.CancelToken.ExpireHrs) * time.Hour)
	tokenID := uuid.New().String()

	claims := Claims{
		ReservationID: reservationID,
		TokenID:       tokenID,
		Type:          CancelToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.App.Name,
			Subject:   reservationID,
			ID:        tokenID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.config.Booking.CancelToken.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateCancelToken validates and parses a cancellation token.
func (s *Service) ValidateCancelToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(s.config.Booking.CancelToken.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != CancelToken || claims.ReservationID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}
