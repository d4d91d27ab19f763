package session

import (
	"net/http"
	"strings"
)

// DefaultCookieName is the cookie that carries the session token for browsers.
const DefaultCookieName = "taskmanager.session_token"

const bearerPrefix = "bearer "

// Source identifies where a session token was taken from.
type Source int

const (
	// SourceNone means the request carried no usable token.
	SourceNone Source = iota
	// SourceBearer means the token came from the Authorization header.
	SourceBearer
	// SourceCookie means the token came from the session cookie.
	SourceCookie
)

func (s Source) String() string {
	switch s {
	case SourceBearer:
		return "bearer"
	case SourceCookie:
		return "cookie"
	default:
		return "none"
	}
}

// Material is the raw credential material extracted from one request.
// Empty strings mean the corresponding transport was absent.
type Material struct {
	Bearer string
	Cookie string
}

// Token returns the token to authenticate with and where it came from.
// A bearer token always takes precedence over the cookie.
func (m Material) Token() (string, Source) {
	if m.Bearer != "" {
		return m.Bearer, SourceBearer
	}
	if m.Cookie != "" {
		return m.Cookie, SourceCookie
	}
	return "", SourceNone
}

// Empty reports whether neither transport carried a token.
func (m Material) Empty() bool {
	return m.Bearer == "" && m.Cookie == ""
}

// MaterialFromRequest extracts the bearer token and the named session cookie.
// All Cookie headers on the request are considered.
func MaterialFromRequest(r *http.Request, cookieName string) Material {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	cookies := ParseCookieHeader(strings.Join(r.Header.Values("Cookie"), ";"))
	return Material{
		Bearer: ParseBearer(r.Header.Get("Authorization")),
		Cookie: cookies[cookieName],
	}
}

// ParseBearer returns the token from an Authorization header value.
// The scheme is matched case-insensitively and the remainder is returned
// verbatim. Returns an empty string for other schemes or an empty token.
func ParseBearer(header string) string {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}

// ParseCookieHeader parses a Cookie header into a name/value map.
// Pairs are split on ";" and trimmed; the first "=" separates name from
// value so values may contain "=". Pairs without a name are skipped and
// a repeated name keeps its last value.
func ParseCookieHeader(header string) map[string]string {
	cookies := make(map[string]string)
	for pair := range strings.SplitSeq(header, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies[name] = strings.TrimSpace(value)
	}
	return cookies
}
