package provider

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "per-provider-key"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tkn.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func fullClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "google-user-42",
		"email": "bob@x.com",
		"name":  "Bob",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerify_Valid(t *testing.T) {
	r := NewRegistry(map[string]string{"google": secret})

	claim, err := r.Verify("google", sign(t, secret, fullClaims()))
	require.NoError(t, err)
	assert.Equal(t, "google", claim.Provider)
	assert.Equal(t, "google-user-42", claim.Subject)
	assert.Equal(t, "bob@x.com", claim.Email)
	assert.Equal(t, "Bob", claim.Name)
}

func TestVerify_Rejections(t *testing.T) {
	r := NewRegistry(map[string]string{"google": secret})

	expired := fullClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noSubject := fullClaims()
	delete(noSubject, "sub")

	noEmail := fullClaims()
	delete(noEmail, "email")

	tests := []struct {
		name      string
		provider  string
		assertion string
	}{
		{name: "unknown provider", provider: "myspace", assertion: sign(t, secret, fullClaims())},
		{name: "wrong key", provider: "google", assertion: sign(t, "other-key", fullClaims())},
		{name: "expired", provider: "google", assertion: sign(t, secret, expired)},
		{name: "missing subject", provider: "google", assertion: sign(t, secret, noSubject)},
		{name: "missing email", provider: "google", assertion: sign(t, secret, noEmail)},
		{name: "not a token", provider: "google", assertion: "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim, err := r.Verify(tt.provider, tt.assertion)
			assert.ErrorIs(t, err, ErrInvalidAssertion)
			assert.Nil(t, claim)
		})
	}
}
