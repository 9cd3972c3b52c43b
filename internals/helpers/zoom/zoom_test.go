package zoom

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/configs"
)

func TestWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"meeting.started"}`)
	sig := WebhookSignature("secret", "1700000000", body)
	assert.True(t, strings.HasPrefix(sig, "v0="))
	assert.True(t, VerifyWebhook("secret", "1700000000", body, sig))
	assert.False(t, VerifyWebhook("secret", "1700000001", body, sig))
	assert.False(t, VerifyWebhook("other", "1700000000", body, sig))
	assert.False(t, VerifyWebhook("", "1700000000", body, sig))
}

func TestEncryptPlainToken(t *testing.T) {
	// HMAC-SHA256("key", "The quick brown fox jumps over the lazy dog")
	assert.Equal(t,
		"f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8",
		EncryptPlainToken("key", "The quick brown fox jumps over the lazy dog"))
}

func TestSDKSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	sig, err := SDKSignature("sdk-key", "sdk-secret", 123456789, RoleHost, now)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.NewParser(jwt.WithoutClaimsValidation()).ParseWithClaims(sig, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("sdk-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "123456789", claims["mn"])
	assert.EqualValues(t, RoleHost, claims["role"])
	assert.EqualValues(t, now.Unix()-30, claims["iat"])
}

func TestNewScheduledMeeting_RoundsUp(t *testing.T) {
	req := NewScheduledMeeting("Go", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), 61, true)
	assert.Equal(t, 2, req.Duration)
	assert.Equal(t, "2026-01-02T03:04:05Z", req.StartTime)
	assert.Equal(t, "cloud", req.Settings.AutoRecording)
}

func TestClient_CreateMeeting(t *testing.T) {
	var tokenCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			atomic.AddInt32(&tokenCalls, 1)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "account_credentials", r.PostForm.Get("grant_type"))
			assert.Equal(t, "acc-1", r.PostForm.Get("account_id"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600}`)
		case "/v2/users/host-1/meetings":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			var body MeetingRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Intro", body.Topic)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":987654321,"password":"abc123","host_id":"host-1"}`)
		case "/v2/meetings/987654321":
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(configs.ZoomConfig{APIBaseURL: srv.URL + "/v2", OAuthURL: srv.URL + "/oauth/token"},
		func(context.Context) (Credentials, error) {
			return Credentials{AccountID: "acc-1", ClientID: "id", ClientSecret: "secret"}, nil
		})

	ctx := context.Background()
	m, err := c.CreateMeeting(ctx, "host-1", NewScheduledMeeting("Intro", time.Now(), 3600, false))
	require.NoError(t, err)
	assert.EqualValues(t, 987654321, m.ID)
	assert.Equal(t, "abc123", m.Password)

	require.NoError(t, c.DeleteMeeting(ctx, m.ID))
	assert.EqualValues(t, 1, atomic.LoadInt32(&tokenCalls))
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(configs.ZoomConfig{}, func(context.Context) (Credentials, error) { return Credentials{}, nil })
	_, err := c.CreateMeeting(context.Background(), "h", MeetingRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
