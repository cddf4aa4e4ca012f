package authz

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("authz: nil parameter")

	// ErrBadSignature indicates the signature bytes could not be parsed.
	ErrBadSignature = errors.New("authz: malformed signature")

	// ErrSignatureMismatch indicates the signature does not match the
	// message digest under the trusted signer's key.
	ErrSignatureMismatch = errors.New("authz: signature mismatch")
)
