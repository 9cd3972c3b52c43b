// Package zoom talks to the Zoom REST API with server-to-server OAuth.
package zoom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"academykit_backend/internals/configs"
	"academykit_backend/internals/helpers/breaker"
)

var ErrNotConfigured = errors.New("zoom is not configured")

// Credentials come from the zoom settings row, so they are looked up per call.
type Credentials struct {
	AccountID    string
	ClientID     string
	ClientSecret string
}

func (c Credentials) Valid() bool {
	return c.AccountID != "" && c.ClientID != "" && c.ClientSecret != ""
}

type CredentialsFunc func(ctx context.Context) (Credentials, error)

type Client struct {
	baseURL  string
	oauthURL string
	creds    CredentialsFunc
	http     *http.Client
	limiter  *rate.Limiter
	cb       *gobreaker.CircuitBreaker[[]byte]

	mu      sync.Mutex
	tsCreds Credentials
	ts      oauth2.TokenSource
}

func NewClient(cfg configs.ZoomConfig, creds CredentialsFunc) *Client {
	base := strings.TrimSuffix(cfg.APIBaseURL, "/")
	if base == "" {
		base = "https://api.zoom.us/v2"
	}
	oauthURL := cfg.OAuthURL
	if oauthURL == "" {
		oauthURL = "https://zoom.us/oauth/token"
	}
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 10
	}
	cbCfg := breaker.DefaultConfig("zoom")
	cbCfg.IsSuccessful = func(err error) bool {
		// 4xx answers say nothing about Zoom's health
		var apiErr *APIError
		return err == nil || (errors.As(err, &apiErr) && apiErr.Status < 500)
	}
	return &Client{
		baseURL:  base,
		oauthURL: oauthURL,
		creds:    creds,
		http:     &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(perSec), perSec),
		cb:       breaker.New[[]byte](cbCfg),
	}
}

func (c *Client) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if c.creds == nil {
		return nil, ErrNotConfigured
	}
	creds, err := c.creds(ctx)
	if err != nil {
		return nil, err
	}
	if !creds.Valid() {
		return nil, ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ts != nil && c.tsCreds == creds {
		return c.ts, nil
	}
	cc := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     c.oauthURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
		EndpointParams: url.Values{
			"grant_type": {"account_credentials"},
			"account_id": {creds.AccountID},
		},
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.http)
	c.ts = cc.TokenSource(tokenCtx)
	c.tsCreds = creds
	return c.ts, nil
}

// APIError is a non-2xx answer from Zoom.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string { return fmt.Sprintf("zoom api: status %d: %s", e.Status, e.Body) }

func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	ts, err := c.tokenSource(ctx)
	if err != nil {
		return nil, err
	}
	var body []byte
	if in != nil {
		if body, err = sonic.Marshal(in); err != nil {
			return nil, err
		}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return c.cb.Execute(func() ([]byte, error) {
		tok, err := ts.Token()
		if err != nil {
			return nil, errors.Wrap(err, "zoom token")
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		tok.SetAuthHeader(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, errors.Wrapf(err, "zoom %s %s", method, path)
		}
		defer resp.Body.Close()
		out, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode, Body: string(out)}
		}
		return out, nil
	})
}
