// Package identity verifies identity assertions issued by a third-party
// provider and extracts the verified claims.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidAssertion is returned for any assertion that failed verification,
// including provider outages: assertions are never retried.
var ErrInvalidAssertion = errors.New("invalid identity assertion")

// Claims are identity attributes taken from a verified assertion only
type Claims struct {
	Subject    string
	Email      string
	Name       string
	PictureURL string
}

// Verifier validates identity assertions
type Verifier interface {
	Verify(ctx context.Context, assertion string) (*Claims, error)
}

// DisabledVerifier rejects every assertion.
// Used when no provider is configured.
type DisabledVerifier struct{}

// Verify always fails with ErrInvalidAssertion
func (DisabledVerifier) Verify(context.Context, string) (*Claims, error) {
	return nil, errors.Join(ErrInvalidAssertion, errors.New("federated login is not configured"))
}
