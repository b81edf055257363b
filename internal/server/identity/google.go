package identity

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Допустимые значения iss у Google ID token
var googleIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

// validateFunc matches idtoken.Validate
type validateFunc func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

// GoogleVerifier verifies Google ID tokens.
// Signature, audience and expiry are checked by idtoken against Google's public keys.
type GoogleVerifier struct {
	validate validateFunc
	clientID string
}

// NewGoogleVerifier creates a verifier accepting tokens issued for clientID
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: clientID,
		validate: idtoken.Validate,
	}
}

// Verify validates the ID token and returns its verified claims
func (v *GoogleVerifier) Verify(ctx context.Context, assertion string) (*Claims, error) {
	payload, err := v.validate(ctx, assertion, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAssertion, err)
	}

	if _, ok := googleIssuers[payload.Issuer]; !ok {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidAssertion, payload.Issuer)
	}

	// email_verified=false означает, что провайдер не подтвердил владение адресом
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email is not verified", ErrInvalidAssertion)
	}

	return &Claims{
		Subject:    payload.Subject,
		Email:      stringClaim(payload.Claims, "email"),
		Name:       stringClaim(payload.Claims, "name"),
		PictureURL: stringClaim(payload.Claims, "picture"),
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	value, _ := claims[key].(string)
	return value
}
