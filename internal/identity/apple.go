package identity

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const appleIssuer = "https://appleid.apple.com"

// AppleVerifier validates Sign in with Apple identity tokens locally: it
// fetches Apple's current signing keys, picks the one named by the token's
// kid header and verifies the RS256 signature, expiry and issuer.
type AppleVerifier struct {
	KeysURL string       // JWKS endpoint, normally https://appleid.apple.com/auth/keys
	Client  *http.Client // nil means a default client with a short timeout
}

func NewAppleVerifier(keysURL string) *AppleVerifier {
	return &AppleVerifier{
		KeysURL: keysURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// jwks mirrors the JSON document served by the provider's key endpoint.
type jwks struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Verify checks the identity token and returns the email it asserts.
func (v *AppleVerifier) Verify(ctx context.Context, identityToken string) (string, error) {
	tok, err := jwt.Parse(identityToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("missing kid header")
		}
		return v.signingKey(ctx, kid)
	})
	if err != nil || !tok.Valid {
		return "", ErrVerificationFailed
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrVerificationFailed
	}
	if iss, _ := claims["iss"].(string); iss != appleIssuer {
		return "", ErrVerificationFailed
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrVerificationFailed
	}
	return email, nil
}

// signingKey fetches the provider's key set and assembles the RSA public key
// with the given kid.  Keys rotate, so the set is fetched per verification
// rather than cached.
func (v *AppleVerifier) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	client := v.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.KeysURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("key endpoint returned %d", resp.StatusCode)
	}
	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, err
	}
	for _, k := range set.Keys {
		if k.Kid != kid || k.Kty != "RSA" {
			continue
		}
		return rsaKeyFromJWK(k)
	}
	return nil, fmt.Errorf("no key with kid %q", kid)
}

// rsaKeyFromJWK decodes the base64url modulus and exponent of a JWK.
func rsaKeyFromJWK(k jwk) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	e := 0
	for _, b := range eb {
		e = e<<8 | int(b)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}
