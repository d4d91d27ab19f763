package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleProviderName is the value Name returns and the provider column
// stored with each user.
const GoogleProviderName = "google"

const googleProfileURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleDefaultScopes are requested when GoogleConfig.Scopes is empty.
func GoogleDefaultScopes() []string {
	return []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
}

// GoogleProvider signs users in with their Google account.
type GoogleProvider struct {
	config     oauth2.Config
	client     *http.Client
	profileURL string
}

// NewGoogleProvider returns ErrMissingClientID or ErrMissingClientSecret
// when cfg is incomplete.
func NewGoogleProvider(cfg GoogleConfig, opts ...Option) (*GoogleProvider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = GoogleDefaultScopes()
	}
	p := &GoogleProvider{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		profileURL: googleProfileURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *GoogleProvider) Name() string { return GoogleProviderName }

// AuthCodeURL always shows the account chooser so a user who signed out
// can pick a different account.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Authenticate trades code for an access token and loads the profile.
// Accounts without a verified email are rejected with ErrEmailNotVerified.
func (p *GoogleProvider) Authenticate(ctx context.Context, code string) (*UserInfo, error) {
	if p.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Join(ErrExchangeFailed, err)
	}

	profile, err := p.profile(ctx, p.config.Client(ctx, token))
	if err != nil {
		return nil, err
	}
	if !profile.VerifiedEmail || profile.Email == "" {
		return nil, ErrEmailNotVerified
	}
	return &UserInfo{
		ID:      profile.ID,
		Email:   profile.Email,
		Name:    profile.Name,
		Picture: profile.Picture,
	}, nil
}

type googleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (p *GoogleProvider) profile(ctx context.Context, client *http.Client) (googleProfile, error) {
	var out googleProfile

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return out, errors.Join(ErrFetchFailed, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return out, errors.Join(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return out, errors.Join(ErrRequestFailed, fmt.Errorf("profile: HTTP %d: %s", resp.StatusCode, snippet))
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, errors.Join(ErrDecodeFailed, err)
	}
	return out, nil
}
