package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/velora/storefront-cart/pkg/errors"
	"github.com/velora/storefront-cart/pkg/middleware"
)

// storefrontClaims are the JWT claims issued by the storefront identity
// service. The subject carries the user ID.
type storefrontClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// NewValidator returns a TokenValidator verifying HS256 tokens signed with
// secret. Expiry and not-before are enforced by the jwt library.
func NewValidator(secret string) middleware.TokenValidator {
	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}

	return func(tokenString string) (*middleware.Claims, error) {
		var claims storefrontClaims
		token, err := jwt.ParseWithClaims(tokenString, &claims, keyFunc,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil {
			return nil, apperrors.Unauthorized("invalid token")
		}
		if !token.Valid || claims.Subject == "" {
			return nil, apperrors.Unauthorized("invalid token")
		}

		return &middleware.Claims{
			UserID: claims.Subject,
			Email:  claims.Email,
		}, nil
	}
}
