package utils

import (
	"errors"
	"time"

	"servana/config"
	"servana/models"

	"github.com/golang-jwt/jwt/v5"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "servana-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT with the given subject (customer id)
// and email. The token expires after the specified duration.
func GenerateToken(subject, email string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// PrincipalFromToken extracts the authenticated principal from a valid
// token string.
func PrincipalFromToken(tokenString string) (models.Principal, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Principal{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Principal{}, errors.New("token does not contain a valid 'sub' claim")
	}
	email, _ := claims["email"].(string)

	return models.Principal{ID: sub, Email: email}, nil
}
