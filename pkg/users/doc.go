// Package users stores the accounts behind sessions. A user is created
// the first time someone signs in with Google and refreshed on every
// later sign-in.
package users
