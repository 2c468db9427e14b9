// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/listify/internal/platform/sec"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

/*
TestTokenService_RoundTrip signs and verifies a token with a local key pair.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	key := newKey(t)
	service := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "listify.app")

	token, err := service.GenerateAccessToken("u-1", "reader", string(sec.RoleMember), time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "member", claims.Role)
}

/*
TestTokenService_Rejects covers the common rejection paths.
*/
func TestTokenService_Rejects(t *testing.T) {
	key := newKey(t)
	other := newKey(t)

	signer := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "listify.app")

	t.Run("expired", func(t *testing.T) {
		token, err := signer.GenerateAccessToken("u-1", "reader", "member", -time.Minute)
		require.NoError(t, err)
		_, err = signer.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong_key", func(t *testing.T) {
		token, err := signer.GenerateAccessToken("u-1", "reader", "member", time.Minute)
		require.NoError(t, err)
		verifier := sec.NewTokenServiceFromKeys(nil, &other.PublicKey, "listify.app")
		_, err = verifier.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		token, err := signer.GenerateAccessToken("u-1", "reader", "member", time.Minute)
		require.NoError(t, err)
		verifier := sec.NewTokenServiceFromKeys(nil, &key.PublicKey, "someone.else")
		_, err = verifier.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("verify_only_cannot_sign", func(t *testing.T) {
		verifier := sec.NewTokenServiceFromKeys(nil, &key.PublicKey, "listify.app")
		_, err := verifier.GenerateAccessToken("u-1", "reader", "member", time.Minute)
		assert.ErrorIs(t, err, sec.ErrSigningDisabled)
	})
}

/*
TestUserRole_AtLeast checks the role ordering.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.RoleMember))
}

/*
TestUserRole_Hierarchy verifies parsing and ordering of roles.
*/
func TestUserRole_Hierarchy(t *testing.T) {
	assert.Equal(t, sec.RoleAdmin, sec.ParseRole(" Admin "))
	assert.Equal(t, sec.UserRole(""), sec.ParseRole("owner"))

	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleMember))
	assert.True(t, sec.RoleMember.AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.ParseRole("owner").AtLeast(sec.RoleMember))

	claims := &sec.AuthClaims{Role: "ADMIN"}
	assert.Equal(t, sec.RoleAdmin, claims.UserRole())
}
