package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestVerifier(payload *idtoken.Payload, err error) (*GoogleVerifier, *string) {
	var gotAudience string
	v := NewGoogleVerifier("client-123.apps.googleusercontent.com")
	v.validate = func(_ context.Context, _ string, audience string) (*idtoken.Payload, error) {
		gotAudience = audience
		return payload, err
	}
	return v, &gotAudience
}

func TestGoogleVerifier_Verify(t *testing.T) {
	tests := []struct {
		payload     *idtoken.Payload
		validateErr error
		want        *Claims
		name        string
		wantErr     bool
	}{
		{
			name: "valid token",
			payload: &idtoken.Payload{
				Issuer:  "https://accounts.google.com",
				Subject: "1234567890",
				Claims: map[string]interface{}{
					"email":          "a@x.com",
					"email_verified": true,
					"name":           "Alice",
					"picture":        "https://lh3.googleusercontent.com/a.png",
				},
			},
			want: &Claims{
				Subject:    "1234567890",
				Email:      "a@x.com",
				Name:       "Alice",
				PictureURL: "https://lh3.googleusercontent.com/a.png",
			},
		},
		{
			name: "short issuer form and no optional claims",
			payload: &idtoken.Payload{
				Issuer:  "accounts.google.com",
				Subject: "42",
				Claims:  map[string]interface{}{"email": "b@x.com"},
			},
			want: &Claims{Subject: "42", Email: "b@x.com"},
		},
		{
			name: "missing email is returned empty",
			payload: &idtoken.Payload{
				Issuer:  "accounts.google.com",
				Subject: "42",
				Claims:  map[string]interface{}{"name": "No Mail"},
			},
			want: &Claims{Subject: "42", Name: "No Mail"},
		},
		{
			name:        "signature or audience check failed",
			validateErr: errors.New("idtoken: audience provided does not match aud claim in the JWT"),
			wantErr:     true,
		},
		{
			name: "foreign issuer",
			payload: &idtoken.Payload{
				Issuer: "https://evil.example.com",
				Claims: map[string]interface{}{"email": "a@x.com"},
			},
			wantErr: true,
		},
		{
			name: "unverified email",
			payload: &idtoken.Payload{
				Issuer: "accounts.google.com",
				Claims: map[string]interface{}{"email": "a@x.com", "email_verified": false},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, audience := newTestVerifier(tt.payload, tt.validateErr)

			claims, err := v.Verify(context.Background(), "id-token")
			assert.Equal(t, "client-123.apps.googleusercontent.com", *audience)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAssertion)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, claims)
		})
	}
}

func TestGoogleVerifier_RealValidatorRejectsGarbage(t *testing.T) {
	v := NewGoogleVerifier("client-123.apps.googleusercontent.com")

	// idtoken парсит токен до обращения к сети
	claims, err := v.Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidAssertion)
	assert.Nil(t, claims)
}

func TestDisabledVerifier(t *testing.T) {
	claims, err := DisabledVerifier{}.Verify(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrInvalidAssertion)
	assert.Nil(t, claims)
}
