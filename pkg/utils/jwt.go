package utils

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 72 * time.Hour

// GenerateToken signs a user token. Issuance belongs to the auth service; this is kept
// for tooling and tests that need a valid bearer token.
func GenerateToken(userID uuid.UUID, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ValidateToken(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}

		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ClaimUserID returns the user_id claim when it holds a well-formed UUID.
func ClaimUserID(claims jwt.MapClaims) (string, error) {
	raw, _ := claims["user_id"].(string)
	id, err := uuid.FromString(raw)
	if err != nil {
		return "", errors.New("invalid user_id claim")
	}
	return id.String(), nil
}
