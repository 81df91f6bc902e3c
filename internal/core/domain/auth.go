package domain

import "errors"

// Credential and token failures. All of them terminate the call that raised
// them; the transport layer maps each one to a response status.
var (
	ErrMissingCredential = errors.New("no credential provided")
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
	// ErrStaleIdentity means a token verified fine but its subject no longer
	// exists in the credential store.
	ErrStaleIdentity = errors.New("user no longer exists")
)

// Authorization denials.
var (
	ErrInsufficientRole   = errors.New("insufficient role")
	ErrOwnershipViolation = errors.New("you do not have access to this resource")
)

// ErrCacheMiss is returned by the identity cache when a key is absent.
var ErrCacheMiss = errors.New("identity not cached")
