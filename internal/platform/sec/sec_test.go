// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animeapi/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenService(key, issuer)
}

/*
TestTokenService_RoundTrip signs and verifies an access token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "anime-api")

	token, err := service.GenerateAccessToken("u-1", "jacob", sec.RoleEditor, time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "jacob", claims.Username)
	assert.Equal(t, "editor", claims.Role)
}

/*
TestTokenService_Rejects covers expired tokens, foreign issuers and garbage input.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t, "anime-api")

	expired, err := service.GenerateAccessToken("u-1", "jacob", sec.RoleAdmin, -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	other := newTokenService(t, "someone-else")
	foreign, err := other.GenerateAccessToken("u-2", "mallory", sec.RoleAdmin, time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(foreign)
	assert.Error(t, err)

	_, err = service.VerifyToken("not-a-jwt")
	assert.Error(t, err)
}

/*
TestUserRole_AtLeast checks the role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleEditor))
	assert.True(t, sec.RoleEditor.AtLeast(sec.RoleEditor))
	assert.False(t, sec.RoleViewer.AtLeast(sec.RoleEditor))
	assert.False(t, sec.UserRole("ghost").AtLeast(sec.RoleViewer))
}
