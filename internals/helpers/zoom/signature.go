package zoom

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// WebhookSignature computes "v0=" + hex(HMAC-SHA256(secret, "v0:{timestamp}:{body}")).
func WebhookSignature(secret, timestamp string, body []byte) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte("v0:" + timestamp + ":"))
	m.Write(body)
	return "v0=" + hex.EncodeToString(m.Sum(nil))
}

// VerifyWebhook compares the x-zm-signature header in constant time.
func VerifyWebhook(secret, timestamp string, body []byte, signature string) bool {
	if secret == "" || timestamp == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(WebhookSignature(secret, timestamp, body)), []byte(signature))
}

// EncryptPlainToken answers the endpoint.url_validation challenge.
func EncryptPlainToken(secret, plainToken string) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(plainToken))
	return hex.EncodeToString(m.Sum(nil))
}

const (
	RoleAttendee = 0
	RoleHost     = 1
)

// SDKSignature signs a Meeting SDK join token valid for two hours.
func SDKSignature(sdkKey, sdkSecret string, meetingNumber int64, role int, now time.Time) (string, error) {
	iat := now.Add(-30 * time.Second).Unix()
	exp := iat + int64((2 * time.Hour).Seconds())
	claims := jwt.MapClaims{
		"sdkKey":   sdkKey,
		"appKey":   sdkKey,
		"mn":       strconv.FormatInt(meetingNumber, 10),
		"role":     role,
		"iat":      iat,
		"exp":      exp,
		"tokenExp": exp,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(sdkSecret))
}
