package oauth

// GoogleConfig holds the Google client credentials.
// RedirectURL must point at the server's /api/auth/google/callback route.
type GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	RedirectURL  string   `env:"GOOGLE_OAUTH_REDIRECT_URL" envDefault:"http://localhost:8080/api/auth/google/callback"`
	Scopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:","`
}

// Enabled reports whether credentials are configured. Sign-in routes are
// only mounted when they are.
func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func (c GoogleConfig) validate() error {
	switch {
	case c.ClientID == "":
		return ErrMissingClientID
	case c.ClientSecret == "":
		return ErrMissingClientSecret
	}
	return nil
}
