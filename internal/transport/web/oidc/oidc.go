// Package oidc validates ID tokens issued by the OpenID Connect provider.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/yolonews/localfeed/internal/domain"
)

// Claims are the ID token claims the service relies on. The provider's name claim carries the role.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Nonce string `json:"nonce"`
}

func (c *Claims) Validate(_ context.Context) error {
	if c.Email == "" {
		return errors.New("token has no email claim")
	}
	return nil
}

// Session converts the claims into the session they authenticate.
func (c *Claims) Session() domain.Session {
	return domain.Session{
		Email: c.Email,
		Role:  domain.RoleFromClaim(c.Name),
	}
}

// TokenValidator validates a raw JWT. *validator.Validator satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// NewValidator creates an RS256 validator whose signing keys are discovered from the issuer.
func NewValidator(issuer, audience string) (*validator.Validator, error) {
	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	v, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &Claims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT validator: %w", err)
	}
	return v, nil
}

// ClaimsFromToken validates token and returns its claims.
func ClaimsFromToken(ctx context.Context, v TokenValidator, token string) (*Claims, error) {
	validated, err := v.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("invalid ID token: %w", err)
	}

	validatedClaims, ok := validated.(*validator.ValidatedClaims)
	if !ok {
		return nil, errors.New("unexpected validated claims type")
	}
	claims, ok := validatedClaims.CustomClaims.(*Claims)
	if !ok {
		return nil, errors.New("unexpected custom claims type")
	}
	return claims, nil
}
