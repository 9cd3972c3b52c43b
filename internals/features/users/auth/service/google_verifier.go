package service

import (
	"errors"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

// IDTokenVerifier checks a Google ID token and returns its email.
type IDTokenVerifier interface {
	VerifyEmail(idToken string) (string, error)
}

type GoogleVerifier struct {
	ClientID string
}

func (g GoogleVerifier) VerifyEmail(idToken string) (string, error) {
	if g.ClientID == "" {
		return "", errors.New("google client id is not configured")
	}
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.ClientID}); err != nil {
		return "", err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", err
	}
	if claimSet.Email == "" {
		return "", errors.New("id token carries no email")
	}
	return claimSet.Email, nil
}
