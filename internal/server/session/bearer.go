package session

import "strings"

// BearerPrefix is the case-sensitive Authorization scheme prefix
const BearerPrefix = "Bearer "

// ExtractBearer returns the token from an Authorization header value.
// Missing header, missing prefix or empty token yield ErrMissingToken.
func ExtractBearer(header string) (string, error) {
	token, ok := strings.CutPrefix(header, BearerPrefix)
	if !ok || token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
