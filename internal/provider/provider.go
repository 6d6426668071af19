// Package provider verifies social-login assertions server-side. An assertion
// is the identity provider's ID token; its email and name are trusted only
// after the signature, expiry and required claims check out.
package provider

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidAssertion = errors.New("invalid provider assertion")

// Claim is what a verified assertion boils down to. Subject is the provider's
// stable per-user identifier; it is what the synthetic credential derives from.
type Claim struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

type idTokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type Registry struct {
	secrets map[string][]byte
}

func NewRegistry(secrets map[string]string) *Registry {
	keys := make(map[string][]byte, len(secrets))
	for name, secret := range secrets {
		keys[name] = []byte(secret)
	}
	return &Registry{secrets: keys}
}

// Verify parses and validates the assertion with the named provider's key.
// Unknown provider, bad signature, expired token and missing claims all
// collapse to ErrInvalidAssertion.
func (r *Registry) Verify(providerName, assertion string) (*Claim, error) {
	secret, ok := r.secrets[providerName]
	if !ok {
		return nil, ErrInvalidAssertion
	}

	var claims idTokenClaims
	tkn, err := jwt.ParseWithClaims(assertion, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidAssertion
	}

	if claims.Subject == "" || claims.Email == "" || claims.Name == "" {
		return nil, ErrInvalidAssertion
	}

	return &Claim{
		Provider: providerName,
		Subject:  claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
	}, nil
}
