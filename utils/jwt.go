package utils

import (
	"errors"
	"time"

	"lashbook/config"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateManageToken creates a signed JWT scoped to a single confirmed
// booking. It is handed back with the confirmation response so the client can
// load "manage my booking" views without an account.
func GenerateManageToken(bookingReference, email string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   bookingReference,
		"email": email,
		"scope": "manage-booking",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateManageToken parses a manage token and returns the booking
// reference it was issued for.
func ValidateManageToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	if claims["scope"] != "manage-booking" {
		return "", errors.New("token scope mismatch")
	}
	ref, ok := claims["sub"].(string)
	if !ok || ref == "" {
		return "", errors.New("token missing booking reference")
	}
	return ref, nil
}
