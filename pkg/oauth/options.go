package oauth

import "net/http"

// Option customizes a GoogleProvider.
type Option func(*GoogleProvider)

// WithHTTPClient sends the code exchange and the profile request through client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *GoogleProvider) {
		p.client = client
	}
}

// WithEndpoints points the provider at another authorization server, such
// as a local fake. Empty arguments keep Google's URLs.
func WithEndpoints(authURL, tokenURL, profileURL string) Option {
	return func(p *GoogleProvider) {
		if authURL != "" {
			p.config.Endpoint.AuthURL = authURL
		}
		if tokenURL != "" {
			p.config.Endpoint.TokenURL = tokenURL
		}
		if profileURL != "" {
			p.profileURL = profileURL
		}
	}
}
