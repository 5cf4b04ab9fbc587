// Package utils holds the JWT validation plumbing and the response envelope
// shared by every handler.
package utils

import (
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ifrasafa/docree-project/internal/config"
)

// Claims is the identity extracted from a validated token: the provider's
// subject id and the role claim under the configured namespace.
type Claims struct {
	UserID string
	Role   string
}

var (
	jwks      *keyfunc.JWKS
	issuer    string
	audience  string
	roleClaim string
)

// InitJWKS fetches the identity provider's signing keys and caches the
// validation parameters. Must run before any ValidateToken call.
func InitJWKS() error {
	domain := config.MustGetEnv("AUTH0_DOMAIN")
	audience = config.MustGetEnv("AUTH0_AUDIENCE")
	roleClaim = config.GetEnv("AUTH0_NAMESPACE", "") + "/role"
	issuer = fmt.Sprintf("https://%s/", domain)

	jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", domain)

	var err error
	jwks, err = keyfunc.Get(jwksURL, keyfunc.Options{})
	return err
}

func ValidateToken(tokenString string) (*Claims, error) {
	if jwks == nil {
		return nil, errors.New("JWKS not initialized")
	}

	token, err := jwt.Parse(tokenString, jwks.Keyfunc,
		jwt.WithAudience(audience),
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims[roleClaim].(string)

	return &Claims{UserID: sub, Role: role}, nil
}
