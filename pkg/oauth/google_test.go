package oauth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskmanager/pkg/oauth"
)

var _ oauth.Provider = (*oauth.GoogleProvider)(nil)

func TestNewGoogleProvider(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewGoogleProvider(oauth.GoogleConfig{ClientID: "id", ClientSecret: "secret"})
		require.NoError(t, err)
		require.Equal(t, "google", p.Name())
	})

	t.Run("missing client ID", func(t *testing.T) {
		t.Parallel()
		_, err := oauth.NewGoogleProvider(oauth.GoogleConfig{ClientSecret: "secret"})
		require.ErrorIs(t, err, oauth.ErrMissingClientID)
	})

	t.Run("missing client secret", func(t *testing.T) {
		t.Parallel()
		_, err := oauth.NewGoogleProvider(oauth.GoogleConfig{ClientID: "id"})
		require.ErrorIs(t, err, oauth.ErrMissingClientSecret)
	})
}

func TestGoogleConfig_Enabled(t *testing.T) {
	t.Parallel()

	assert.True(t, oauth.GoogleConfig{ClientID: "id", ClientSecret: "secret"}.Enabled())
	assert.False(t, oauth.GoogleConfig{ClientID: "id"}.Enabled())
	assert.False(t, oauth.GoogleConfig{}.Enabled())
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	t.Parallel()

	p, err := oauth.NewGoogleProvider(oauth.GoogleConfig{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		RedirectURL:  "https://api.example.com/api/auth/google/callback",
	})
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("test-state"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "test-state", q.Get("state"))
	assert.Equal(t, "test-id", q.Get("client_id"))
	assert.Equal(t, "https://api.example.com/api/auth/google/callback", q.Get("redirect_uri"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Contains(t, q.Get("scope"), "userinfo.email")
	assert.Contains(t, q.Get("scope"), "userinfo.profile")
}

func TestGoogleProvider_Authenticate(t *testing.T) {
	t.Parallel()

	tokenOK := func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}

	tests := []struct {
		name     string
		token    func(w http.ResponseWriter)
		userinfo func(w http.ResponseWriter)
		wantErr  error
	}{
		{
			name:  "success",
			token: tokenOK,
			userinfo: func(w http.ResponseWriter) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id": "12345", "email": "user@example.com", "name": "Test User",
					"picture": "https://example.com/p.jpg", "verified_email": true,
				})
			},
		},
		{
			name: "invalid code",
			token: func(w http.ResponseWriter) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			},
			wantErr: oauth.ErrExchangeFailed,
		},
		{
			name:  "unverified email",
			token: tokenOK,
			userinfo: func(w http.ResponseWriter) {
				_ = json.NewEncoder(w).Encode(map[string]any{"id": "1", "email": "u@example.com", "verified_email": false})
			},
			wantErr: oauth.ErrEmailNotVerified,
		},
		{
			name:  "non-OK status",
			token: tokenOK,
			userinfo: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusForbidden)
			},
			wantErr: oauth.ErrRequestFailed,
		},
		{
			name:  "bad JSON",
			token: tokenOK,
			userinfo: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte("not-json"))
			},
			wantErr: oauth.ErrDecodeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotAuth string
			mux := http.NewServeMux()
			mux.HandleFunc("POST /token", func(w http.ResponseWriter, _ *http.Request) { tt.token(w) })
			mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				tt.userinfo(w)
			})
			srv := httptest.NewServer(mux)
			t.Cleanup(srv.Close)

			p, err := oauth.NewGoogleProvider(
				oauth.GoogleConfig{ClientID: "test-id", ClientSecret: "test-secret"},
				oauth.WithHTTPClient(srv.Client()),
				oauth.WithEndpoints("", srv.URL+"/token", srv.URL+"/userinfo"),
			)
			require.NoError(t, err)

			user, err := p.Authenticate(t.Context(), "code")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Bearer test-access-token", gotAuth)
			assert.Equal(t, &oauth.UserInfo{
				ID:      "12345",
				Email:   "user@example.com",
				Name:    "Test User",
				Picture: "https://example.com/p.jpg",
			}, user)
		})
	}
}

func TestWithEndpoints_AuthURL(t *testing.T) {
	t.Parallel()

	p, err := oauth.NewGoogleProvider(
		oauth.GoogleConfig{ClientID: "id", ClientSecret: "secret", Scopes: []string{"openid"}},
		oauth.WithEndpoints("https://sso.example.com/authorize", "", ""),
	)
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("st"))
	require.NoError(t, err)
	assert.Equal(t, "sso.example.com", u.Host)
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "openid", u.Query().Get("scope"))
}
