// Package apperrors defines the error taxonomy shared by repositories,
// services and handlers. Anything that is not one of these sentinels is
// treated as an infrastructure failure by the HTTP layer.
package apperrors

import "errors"

var (
	// ErrNotFound is returned when a referenced id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a guarded delete is blocked by
	// existing child rows.
	ErrConflict = errors.New("conflict: dependent records exist")

	// ErrDuplicateUsername is returned when registering a username that
	// is already taken.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials is returned for a failed login. The same
	// error covers unknown usernames and wrong passwords so responses
	// cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated is returned for a missing, malformed or expired
	// token.
	ErrUnauthenticated = errors.New("missing or invalid token")

	// ErrForbidden is returned when the token is valid but the role is
	// insufficient for the operation.
	ErrForbidden = errors.New("insufficient role")
)
