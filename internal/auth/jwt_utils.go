package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-pos-terminal/internal/config"
)

// Claims defines what is inside the token: the cashier binding for the session.
type Claims struct {
	CashierID uint   `json:"cashier_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a cashier session.
func GenerateToken(cashierID uint, username, role string) (string, error) {
	expirationTime := time.Now().Add(time.Duration(config.AppConfig.Server.JWTExpirationHours) * time.Hour)

	claims := &Claims{
		CashierID: cashierID,
		Username:  username,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.Server.JWTSecret))
}

// ValidateToken checks if a token is fake or expired.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.Server.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
