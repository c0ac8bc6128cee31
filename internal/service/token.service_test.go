package service

import (
	"strings"
	"testing"
	"time"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssueAndValidate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(testSecret, time.Hour, "product-catalog", WithClock(func() time.Time { return now }))

	token, issued, err := svc.Issue(&model.User{ID: 42})
	require.NoError(t, err)
	assert.Equal(t, "42", issued.Subject)
	assert.NotEmpty(t, issued.ID)
	assert.True(t, now.Add(time.Hour).Equal(issued.ExpiresAt.Time))

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, claims.ID)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokenJTIsAreUnique(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, "product-catalog")
	_, a, err := svc.Issue(&model.User{ID: 1})
	require.NoError(t, err)
	_, b, err := svc.Issue(&model.User{ID: 1})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenValidateExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc := NewTokenService(testSecret, time.Minute, "product-catalog", WithClock(clock))

	token, _, err := svc.Issue(&model.User{ID: 1})
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, apperror.ErrTokenExpired)
}

func TestTokenValidateRejectsForgeries(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, "product-catalog")
	good, _, err := svc.Issue(&model.User{ID: 7})
	require.NoError(t, err)

	otherKey := NewTokenService([]byte("another-secret"), time.Hour, "product-catalog")
	forged, _, err := otherKey.Issue(&model.User{ID: 7})
	require.NoError(t, err)

	otherIssuer := NewTokenService(testSecret, time.Hour, "someone-else")
	foreign, _, err := otherIssuer.Issue(&model.User{ID: 7})
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "7",
		ID:        "jti",
		Issuer:    "product-catalog",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noJTI, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		Issuer:    "product-catalog",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "7",
		ID:      "jti",
		Issuer:  "product-catalog",
	}).SignedString(testSecret)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	cases := map[string]string{
		"wrong key":    forged,
		"wrong issuer": foreign,
		"alg none":     unsigned,
		"missing jti":  noJTI,
		"missing exp":  noExpiry,
		"tampered":     tampered,
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Validate(token)
			assert.ErrorIs(t, err, apperror.ErrInvalidSignature)
		})
	}
}
