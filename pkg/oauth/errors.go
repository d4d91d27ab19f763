package oauth

import "errors"

var (
	ErrMissingClientID     = errors.New("oauth: missing client ID")
	ErrMissingClientSecret = errors.New("oauth: missing client secret")

	// ErrEmailNotVerified is returned when the provider reports an unverified email.
	ErrEmailNotVerified = errors.New("oauth: email not verified")

	ErrExchangeFailed = errors.New("oauth: code exchange failed")
	ErrFetchFailed    = errors.New("oauth: failed to fetch from provider")
	ErrRequestFailed  = errors.New("oauth: request returned non-OK status")
	ErrDecodeFailed   = errors.New("oauth: failed to decode response")
)
