// Package session resolves request credentials into an authenticated identity.
//
// A request may carry a session token either as an Authorization bearer
// header (mobile clients without a cookie jar) or as a session cookie
// (browsers). [MaterialFromRequest] extracts both, and [Resolver] turns the
// chosen token into an [AuthContext] by looking it up in a [Store].
//
// Resolution is read-only: sessions are never extended, rotated or deleted
// while authenticating. Every failure collapses into [ErrUnauthenticated]
// so that callers cannot distinguish a missing token from an expired one.
//
// # Stores
//
// [PostgresStore] persists sessions in the sessions table and implements
// [ExpiredPurger] for the scheduled [CleanupTask]. [CacheStore] keeps
// sessions in a cache.Cache (Redis in production, memory in tests) and
// relies on per-entry TTLs for expiry.
//
// # Usage
//
//	resolver := session.NewResolver(store, session.WithLogger(log))
//
//	m := session.MaterialFromRequest(r, session.DefaultCookieName)
//	auth, err := resolver.Resolve(r.Context(), m)
//	if err != nil {
//	    // 401
//	}
//	ctx := session.WithAuthContext(r.Context(), auth)
package session
