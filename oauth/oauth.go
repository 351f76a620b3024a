// Package oauth implements Attio's OAuth 2.0 authorization-code flow:
// building the authorization URL, exchanging a code for a token, and
// introspecting an existing token. Attio issues opaque bearer tokens
// that do not expire and have no refresh token.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultAuthorizeURL is Attio's end-user authorization endpoint.
	DefaultAuthorizeURL = "https://app.attio.com/authorize"
	// DefaultTokenURL is Attio's token exchange endpoint.
	DefaultTokenURL = "https://app.attio.com/oauth/token"
)

// Config holds the OAuth application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// AuthorizeURL and TokenURL override the defaults, e.g. for tests.
	AuthorizeURL string
	TokenURL     string

	// HTTPClient overrides the default 10-second-timeout client.
	HTTPClient *http.Client
}

// Token is the result of a successful code exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Introspection describes an access token's validity and grants.
type Introspection struct {
	Active      bool   `json:"active"`
	Scope       string `json:"scope"`
	ClientID    string `json:"client_id"`
	WorkspaceID string `json:"workspace_id"`
}

// Error is a failed response from the token endpoint.
type Error struct {
	StatusCode  int
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("oauth: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("oauth: token endpoint returned status %d", e.StatusCode)
}

func (c *Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Config) authorizeURL() string {
	if c.AuthorizeURL != "" {
		return c.AuthorizeURL
	}
	return DefaultAuthorizeURL
}

func (c *Config) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return DefaultTokenURL
}

// AuthURL builds the URL to send the user to. state is echoed back on
// the redirect and must be verified by the caller.
func (c *Config) AuthURL(state string, scopes []string) string {
	q := url.Values{
		"client_id":     {c.ClientID},
		"redirect_uri":  {c.RedirectURI},
		"response_type": {"code"},
		"state":         {state},
	}
	if len(scopes) > 0 {
		q.Set("scope", strings.Join(scopes, " "))
	}
	return c.authorizeURL() + "?" + q.Encode()
}

// Exchange trades an authorization code for an access token.
func (c *Config) Exchange(ctx context.Context, code string) (*Token, error) {
	if code == "" {
		return nil, fmt.Errorf("oauth: authorization code is empty")
	}
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"redirect_uri":  {c.RedirectURI},
	}

	body, err := c.postForm(ctx, c.tokenURL(), form)
	if err != nil {
		return nil, err
	}
	var tok Token
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("oauth: decoding token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("oauth: token response missing access_token")
	}
	return &tok, nil
}

// Introspect reports whether an access token is active and what it may
// do.
func (c *Config) Introspect(ctx context.Context, accessToken string) (*Introspection, error) {
	form := url.Values{
		"token":         {accessToken},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
	}
	body, err := c.postForm(ctx, c.tokenURL()+"/introspect", form)
	if err != nil {
		return nil, err
	}
	var in Introspection
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("oauth: decoding introspection response: %w", err)
	}
	return &in, nil
}

func (c *Config) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("oauth: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("oauth: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		oerr := &Error{StatusCode: resp.StatusCode}
		json.Unmarshal(body, oerr)
		return nil, oerr
	}
	return body, nil
}
