package oauth

import "context"

// UserInfo is the identity returned by a provider after sign-in.
type UserInfo struct {
	ID      string // provider's stable user id
	Email   string
	Name    string
	Picture string
}

// Provider performs the authorization code flow against one identity provider.
type Provider interface {
	// Name returns the provider identifier, e.g. "google".
	Name() string

	// AuthCodeURL returns the consent page URL carrying state.
	AuthCodeURL(state string) string

	// Authenticate exchanges an authorization code and returns the verified user.
	Authenticate(ctx context.Context, code string) (*UserInfo, error)
}
