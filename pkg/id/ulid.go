// Package id generates time-sortable identifiers.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strings"
	"time"
)

// ulidLen is 10 chars of 48-bit millisecond time plus 16 chars of 80-bit entropy.
const ulidLen = 26

// Crockford's Base32 alphabet (excludes I, L, O, U).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ErrInvalidULID is returned by ULIDTime for malformed input.
var ErrInvalidULID = errors.New("id: invalid ulid")

// NewULID generates a ULID stamped with the current time.
func NewULID() string {
	return NewULIDAt(time.Now())
}

// NewULIDAt generates a ULID stamped with t. IDs created at later
// milliseconds sort after earlier ones.
func NewULIDAt(t time.Time) string {
	var entropy [10]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		binary.BigEndian.PutUint64(entropy[:8], uint64(time.Now().UnixNano()))
	}

	// 128 bits as hi (time + first 16 entropy bits) and lo (remaining 64).
	ms := uint64(t.UnixMilli()) & (1<<48 - 1)
	hi := ms<<16 | uint64(binary.BigEndian.Uint16(entropy[:2]))
	lo := binary.BigEndian.Uint64(entropy[2:])

	var out [ulidLen]byte
	for i := ulidLen - 1; i >= 0; i-- {
		out[i] = crockfordBase32[lo&0x1F]
		lo = lo>>5 | (hi&0x1F)<<59
		hi >>= 5
	}
	return string(out[:])
}

// ULIDTime returns the creation time encoded in a ULID.
func ULIDTime(s string) (time.Time, error) {
	if len(s) != ulidLen {
		return time.Time{}, ErrInvalidULID
	}
	var ms uint64
	for i := range 10 {
		v := strings.IndexByte(crockfordBase32, s[i])
		if v < 0 {
			return time.Time{}, ErrInvalidULID
		}
		ms = ms<<5 | uint64(v)
	}
	// The leading char carries 2 padding bits above the 48-bit timestamp.
	if ms>>48 != 0 {
		return time.Time{}, ErrInvalidULID
	}
	return time.UnixMilli(int64(ms)), nil
}
