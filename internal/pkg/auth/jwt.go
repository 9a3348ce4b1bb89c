package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aboadu/classtrack/internal/app/models"
	"github.com/aboadu/classtrack/internal/pkg/apperrors"
)

// JWTConfig defines JWT validation settings. Tokens are issued by the
// institution's identity service; this service only verifies them.
type JWTConfig struct {
	SecretKey   string
	TokenIssuer string
}

// JWTService handles JWT validation
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
	}
}

// Claims defines the JWT token content this service consumes. Subject holds
// the principal's identifier: a student index number for students, a staff
// identifier otherwise.
type Claims struct {
	FullName string          `json:"fullName,omitempty"`
	Role     models.RoleType `json:"role"`
	jwt.RegisteredClaims
}

// ValidateToken parses and validates a token, returning its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}

	if s.config.TokenIssuer != "" && claims.Issuer != s.config.TokenIssuer {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}

// ExtractBearerToken extracts the token from an Authorization header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.ErrInvalidFormat
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.ErrInvalidFormat
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", apperrors.ErrInvalidFormat
	}
	return token, nil
}
