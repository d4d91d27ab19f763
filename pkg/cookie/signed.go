package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"net/http"
	"strings"
	"time"
)

// SetSigned writes a tamper-proof cookie valid for ttl.
// The signature covers the cookie name, value and expiry, so a signed
// value cannot be replayed under a different name or after it expires.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, ttl time.Duration) error {
	if m.secret == nil {
		return ErrNoSecret
	}

	exp := m.now().Add(ttl).Unix()
	payload := make([]byte, 8, 8+len(value))
	binary.BigEndian.PutUint64(payload, uint64(exp))
	payload = append(payload, value...)

	encoded := base64.RawURLEncoding.EncodeToString(payload) +
		"." + base64.RawURLEncoding.EncodeToString(m.sign(name, payload))

	http.SetCookie(w, m.build(name, encoded, int(ttl.Seconds())))
	return nil
}

// GetSigned verifies and returns a value written by SetSigned.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}

	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	encPayload, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}
	payload, err := base64.RawURLEncoding.DecodeString(encPayload)
	if err != nil || len(payload) < 8 {
		return "", ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", ErrBadSig
	}
	if !hmac.Equal(sig, m.sign(name, payload)) {
		return "", ErrBadSig
	}

	exp := int64(binary.BigEndian.Uint64(payload[:8]))
	if m.now().Unix() >= exp {
		return "", ErrExpired
	}
	return string(payload[8:]), nil
}

func (m *Manager) sign(name string, payload []byte) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(name))
	mac.Write([]byte{0})
	mac.Write(payload)
	return mac.Sum(nil)
}
