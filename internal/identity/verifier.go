// Package identity validates third-party identity assertions (Apple signed
// JWTs, Google ID tokens) and extracts a verified email address.  Both
// providers sit behind the Verifier interface so the sign-in handler can be
// tested with a stub.
package identity

import (
	"context"
	"errors"
)

// ErrVerificationFailed covers every rejection: bad signature, expiry,
// audience or issuer mismatch, missing email claim.
var ErrVerificationFailed = errors.New("identity verification failed")

// Verifier validates an opaque identity assertion and returns the verified
// email address it asserts.
type Verifier interface {
	Verify(ctx context.Context, identityToken string) (email string, err error)
}
