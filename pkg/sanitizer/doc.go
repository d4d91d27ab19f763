// Package sanitizer cleans user supplied text before it is stored.
//
// All functions are safe for concurrent use; the underlying bluemonday
// policy is built once on first use.
package sanitizer
