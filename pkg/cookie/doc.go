// Package cookie writes HTTP cookies with consistent attributes.
//
// Plain cookies carry the session token; signed cookies carry short-lived
// server state across a redirect, such as the OAuth state and the
// post-sign-in redirect target. Signed values are HMAC-SHA256
// authenticated and expire on their own, independent of the browser's
// Max-Age handling.
//
//	m := cookie.New(cookie.WithSecret(secret), cookie.WithSecure(true))
//	_ = m.SetSigned(w, "oauth_state", state, 10*time.Minute)
//	state, err := m.GetSigned(r, "oauth_state")
package cookie
