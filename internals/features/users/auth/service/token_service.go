package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"academykit_backend/internals/configs"
	userModel "academykit_backend/internals/features/users/users/model"
)

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
)

// TokenPair is returned by every login-like endpoint.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	TokenType        string    `json:"token_type"`
}

type TokenIssuer struct {
	Secret        string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(cfg configs.JWTConfig) *TokenIssuer {
	t := &TokenIssuer{
		Secret:        cfg.Secret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
		now:           func() time.Time { return time.Now().UTC() },
	}
	if t.RefreshSecret == "" {
		t.RefreshSecret = t.Secret
	}
	if t.AccessTTL <= 0 {
		t.AccessTTL = accessTTLDefault
	}
	if t.RefreshTTL <= 0 {
		t.RefreshTTL = refreshTTLDefault
	}
	return t
}

// Issue signs an access token with the claims the auth middleware reads, plus a refresh token.
func (t *TokenIssuer) Issue(user *userModel.UserModel) (TokenPair, error) {
	now := t.now()
	accessExp := now.Add(t.AccessTTL)
	refreshExp := now.Add(t.RefreshTTL)

	access := jwt.MapClaims{
		"id":        user.ID.String(),
		"role":      user.Role,
		"user_name": user.FullName(),
		"email":     user.Email,
		"typ":       "access",
		"jti":       uuid.NewString(),
		"iat":       now.Unix(),
		"exp":       accessExp.Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString([]byte(t.Secret))
	if err != nil {
		return TokenPair{}, err
	}

	refresh := jwt.MapClaims{
		"sub": user.ID.String(),
		"typ": "refresh",
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": refreshExp.Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString([]byte(t.RefreshSecret))
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
		TokenType:        "Bearer",
	}, nil
}

// ParseRefresh verifies signature, type and expiry and returns the subject.
func (t *TokenIssuer) ParseRefresh(token string) (uuid.UUID, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return []byte(t.RefreshSecret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("invalid refresh token")
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return uuid.Nil, fmt.Errorf("not a refresh token")
	}
	sub, _ := claims["sub"].(string)
	return uuid.Parse(sub)
}

// AccessExpiry reads exp from an access token signed with Secret.
func (t *TokenIssuer) AccessExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(t.Secret), nil
	}); err != nil {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0).UTC(), true
}

// HashRefresh is what gets stored; the raw refresh token never touches the database.
func (t *TokenIssuer) HashRefresh(token string) []byte {
	m := hmac.New(sha256.New, []byte(t.RefreshSecret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}
