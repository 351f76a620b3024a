package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(tokenURL string) *Config {
	return &Config{
		ClientID:     "client_1",
		ClientSecret: "secret_1",
		RedirectURI:  "https://example.com/callback",
		TokenURL:     tokenURL,
	}
}

func TestAuthURL(t *testing.T) {
	cfg := testConfig("")
	raw := cfg.AuthURL("state_xyz", []string{"record_permission:read", "object_configuration:read"})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "app.attio.com", u.Host)
	assert.Equal(t, "/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "client_1", q.Get("client_id"))
	assert.Equal(t, "https://example.com/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "state_xyz", q.Get("state"))
	assert.Equal(t, "record_permission:read object_configuration:read", q.Get("scope"))
}

func TestAuthURLWithoutScopes(t *testing.T) {
	cfg := testConfig("")
	u, err := url.Parse(cfg.AuthURL("s", nil))
	require.NoError(t, err)
	assert.False(t, u.Query().Has("scope"))
}

func TestExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "code_abc", r.PostForm.Get("code"))
		assert.Equal(t, "client_1", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret_1", r.PostForm.Get("client_secret"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at_live_token",
			"token_type":   "Bearer",
		})
	}))
	defer srv.Close()

	tok, err := testConfig(srv.URL).Exchange(context.Background(), "code_abc")
	require.NoError(t, err)
	assert.Equal(t, "at_live_token", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
}

func TestExchangeErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error":             "invalid_grant",
			"error_description": "The authorization code is invalid.",
		})
	}))
	defer srv.Close()

	_, err := testConfig(srv.URL).Exchange(context.Background(), "bad_code")
	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, http.StatusBadRequest, oerr.StatusCode)
	assert.Equal(t, "invalid_grant", oerr.Code)
	assert.Contains(t, oerr.Error(), "invalid_grant")
}

func TestExchangeEmptyCode(t *testing.T) {
	_, err := testConfig("http://unused.invalid").Exchange(context.Background(), "")
	require.Error(t, err)
}

func TestExchangeMissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token_type": "Bearer"})
	}))
	defer srv.Close()

	_, err := testConfig(srv.URL).Exchange(context.Background(), "code")
	require.Error(t, err)
}

func TestIntrospect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/introspect"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "at_live_token", r.PostForm.Get("token"))

		json.NewEncoder(w).Encode(map[string]any{
			"active":       true,
			"scope":        "record_permission:read",
			"client_id":    "client_1",
			"workspace_id": "ws_1",
		})
	}))
	defer srv.Close()

	in, err := testConfig(srv.URL).Introspect(context.Background(), "at_live_token")
	require.NoError(t, err)
	assert.True(t, in.Active)
	assert.Equal(t, "ws_1", in.WorkspaceID)
	assert.Equal(t, "record_permission:read", in.Scope)
}
