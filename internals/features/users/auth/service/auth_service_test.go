package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/configs"
	"academykit_backend/internals/constants"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer(configs.JWTConfig{Secret: "access-secret", RefreshSecret: "refresh-secret"})
}

func testUser() *userModel.UserModel {
	return &userModel.UserModel{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: constants.RoleTrainer}
}

func TestIssue_AccessClaims(t *testing.T) {
	issuer := testIssuer()
	user := testUser()

	pair, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.WithinDuration(t, time.Now().Add(accessTTLDefault), pair.ExpiresAt, time.Minute)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(pair.AccessToken, claims, func(*jwt.Token) (any, error) { return []byte("access-secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims["id"])
	assert.Equal(t, constants.RoleTrainer, claims["role"])
	assert.Equal(t, "Ada Lovelace", claims["user_name"])
	assert.Equal(t, "access", claims["typ"])
	assert.NotEmpty(t, claims["jti"])
}

func TestIssue_SameSecondTokensDiffer(t *testing.T) {
	issuer := testIssuer()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }
	user := testUser()

	first, err := issuer.Issue(user)
	require.NoError(t, err)
	second, err := issuer.Issue(user)
	require.NoError(t, err)

	// a blacklisted token from logout must not match the next login's token
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestParseRefresh(t *testing.T) {
	issuer := testIssuer()
	user := testUser()
	pair, err := issuer.Issue(user)
	require.NoError(t, err)

	got, err := issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got)

	_, err = issuer.ParseRefresh(pair.AccessToken)
	assert.Error(t, err, "access tokens are signed with another secret")

	other := NewTokenIssuer(configs.JWTConfig{Secret: "access-secret", RefreshSecret: "refresh-secret"})
	other.now = func() time.Time { return time.Now().Add(-30 * 24 * time.Hour) }
	old, err := other.Issue(user)
	require.NoError(t, err)
	_, err = issuer.ParseRefresh(old.RefreshToken)
	assert.Error(t, err, "expired refresh token")
}

func TestHashRefresh(t *testing.T) {
	issuer := testIssuer()
	a := issuer.HashRefresh("token-a")
	assert.Len(t, a, 32)
	assert.Equal(t, a, issuer.HashRefresh("token-a"))
	assert.NotEqual(t, a, issuer.HashRefresh("token-b"))
}

func TestAccessExpiry(t *testing.T) {
	issuer := testIssuer()
	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)
	exp, ok := issuer.AccessExpiry(pair.AccessToken)
	require.True(t, ok)
	assert.Equal(t, pair.ExpiresAt.Unix(), exp.Unix())

	_, ok = issuer.AccessExpiry("garbage")
	assert.False(t, ok)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))

	code, err := GenerateResetCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Empty(t, strings.Trim(code, "0123456789"))

	for i := 0; i < 20; i++ {
		pw, err := RandomPassword(12)
		require.NoError(t, err)
		assert.Len(t, pw, 12)
		assert.True(t, helper.IsStrongPassword(pw), pw)
	}
}

func TestEnsureCanLogin(t *testing.T) {
	u := testUser()
	u.Status = constants.UserActive
	assert.NoError(t, ensureCanLogin(u))

	for _, status := range []string{constants.UserPending, constants.UserInActive} {
		u.Status = status
		err := ensureCanLogin(u)
		require.Error(t, err)
		assert.Equal(t, 403, helper.Classify(err).Status)
	}
}
