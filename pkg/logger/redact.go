package logger

import (
	"log/slog"
	"strings"
)

// Redacted replaces the value of attributes that may carry credentials.
const Redacted = "[REDACTED]"

// secretKeys are attribute keys whose values are never written.
// Session tokens authenticate on their own, so a leaked log line is a
// leaked session.
var secretKeys = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
	"token":         {},
	"session_token": {},
	"access_token":  {},
	"refresh_token": {},
	"code":          {},
	"state":         {},
}

func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	if _, ok := secretKeys[strings.ToLower(a.Key)]; ok && a.Value.Kind() != slog.KindGroup {
		return slog.String(a.Key, Redacted)
	}
	return a
}
