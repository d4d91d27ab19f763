// Package oauth implements the authorization code flow for third-party
// sign-in. Only Google is supported.
//
//	p, err := oauth.NewGoogleProvider(cfg)
//	if err != nil {
//		return err
//	}
//	http.Redirect(w, r, p.AuthCodeURL(state), http.StatusFound)
//
//	// in the callback
//	user, err := p.Authenticate(ctx, r.URL.Query().Get("code"))
//	if errors.Is(err, oauth.ErrEmailNotVerified) {
//		// reject
//	}
package oauth
