package identity

import (
	"context"

	"google.golang.org/api/idtoken"
)

// GoogleVerifier delegates ID token validation to Google's client library,
// which checks signature, expiry and issuer against the configured audience.
type GoogleVerifier struct {
	Audience string
}

func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{Audience: audience}
}

// Verify validates the token and returns the email claim.
func (v *GoogleVerifier) Verify(ctx context.Context, identityToken string) (string, error) {
	payload, err := idtoken.Validate(ctx, identityToken, v.Audience)
	if err != nil {
		return "", ErrVerificationFailed
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return "", ErrVerificationFailed
	}
	return email, nil
}
