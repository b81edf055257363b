package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/metrics"
	"github.com/iudanet/gophtodo/internal/server/session"
	"github.com/iudanet/gophtodo/pkg/api"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// mockSessionService is a mock implementation of SessionService for testing
type mockSessionService struct {
	registerFn          func(ctx context.Context, in session.RegisterInput) (*models.User, error)
	loginFn             func(ctx context.Context, email, password string) (*session.LoginResult, error)
	loginWithIdentityFn func(ctx context.Context, assertion string) (*session.LoginResult, error)
	profileFn           func(ctx context.Context, token string) (*models.User, error)
	logoutFn            func(ctx context.Context, token string) error
	listUsersFn         func(ctx context.Context) ([]*models.User, error)

	loggedOut []string
}

func (m *mockSessionService) Register(ctx context.Context, in session.RegisterInput) (*models.User, error) {
	return m.registerFn(ctx, in)
}

func (m *mockSessionService) Login(ctx context.Context, email, password string) (*session.LoginResult, error) {
	return m.loginFn(ctx, email, password)
}

func (m *mockSessionService) LoginWithIdentity(ctx context.Context, assertion string) (*session.LoginResult, error) {
	return m.loginWithIdentityFn(ctx, assertion)
}

func (m *mockSessionService) Profile(ctx context.Context, token string) (*models.User, error) {
	return m.profileFn(ctx, token)
}

func (m *mockSessionService) Logout(ctx context.Context, token string) error {
	m.loggedOut = append(m.loggedOut, token)
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

func (m *mockSessionService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return m.listUsersFn(ctx)
}

// recordingMetrics запоминает вызовы метрик
type recordingMetrics struct {
	metrics.Noop
	auth        []string
	revocations int
}

func (m *recordingMetrics) RecordAuth(method, outcome string) {
	m.auth = append(m.auth, method+":"+outcome)
}

func (m *recordingMetrics) RecordRevocation() {
	m.revocations++
}

func testUser() *models.User {
	return &models.User{
		ID:           "user-1",
		Email:        "a@x.com",
		Name:         "Alice",
		PasswordHash: "$2a$12$secret-hash",
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func doRequest(t *testing.T, h http.HandlerFunc, method, target string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       api.RegisterRequest{Email: "a@x.com", Password: "secret1"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			body:       api.RegisterRequest{Email: "a@x.com", Password: "secret1"},
			serviceErr: session.ErrDuplicateEmail,
			wantStatus: http.StatusConflict,
			wantCode:   CodeDuplicateEmail,
		},
		{
			name:       "validation error",
			body:       api.RegisterRequest{Email: "bad", Password: "secret1"},
			serviceErr: fmt.Errorf("%w: email is invalid", session.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidInput,
		},
		{
			name:       "invalid json",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidInput,
		},
		{
			name:       "storage failure",
			body:       api.RegisterRequest{Email: "a@x.com", Password: "secret1"},
			serviceErr: fmt.Errorf("%w: disk I/O error", session.ErrInternal),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSessionService{
				registerFn: func(_ context.Context, in session.RegisterInput) (*models.User, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					u := testUser()
					u.Email = in.Email
					return u, nil
				},
			}
			h := NewAuthHandler(setupTestLogger(), svc, metrics.Noop{})

			w := doRequest(t, h.Register, http.MethodPost, "/api/v1/user/register", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			// Хеш пароля никогда не попадает в ответ
			assert.NotContains(t, w.Body.String(), "secret-hash")
			assert.NotContains(t, strings.ToLower(w.Body.String()), "password")

			if tt.wantCode != "" {
				resp := decodeError(t, w)
				assert.Equal(t, tt.wantCode, resp.Error)
				assert.NotContains(t, resp.Message, "disk I/O")
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour)

	tests := []struct {
		name        string
		body        any
		serviceErr  error
		wantStatus  int
		wantCode    string
		wantMetrics []string
	}{
		{
			name:        "success",
			body:        api.LoginRequest{Email: "a@x.com", Password: "secret1"},
			wantStatus:  http.StatusOK,
			wantMetrics: []string{"password:success"},
		},
		{
			name:        "wrong password",
			body:        api.LoginRequest{Email: "a@x.com", Password: "nope"},
			serviceErr:  session.ErrAuthFailed,
			wantStatus:  http.StatusUnauthorized,
			wantCode:    CodeAuthFailed,
			wantMetrics: []string{"password:failure"},
		},
		{
			name:       "missing password",
			body:       api.LoginRequest{Email: "a@x.com"},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidInput,
		},
		{
			name:       "storage failure not counted as auth failure",
			body:       api.LoginRequest{Email: "a@x.com", Password: "secret1"},
			serviceErr: fmt.Errorf("%w: boom", session.ErrInternal),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSessionService{
				loginFn: func(_ context.Context, email, password string) (*session.LoginResult, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &session.LoginResult{User: testUser(), Token: "token-T", ExpiresAt: expiresAt}, nil
				},
			}
			rec := &recordingMetrics{}
			h := NewAuthHandler(setupTestLogger(), svc, rec)

			w := doRequest(t, h.Login, http.MethodPost, "/api/v1/user/login", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMetrics, rec.auth)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
				return
			}

			var resp struct {
				Message   string          `json:"message"`
				Data      api.UserProfile `json:"data"`
				Token     string          `json:"token"`
				ExpiresIn int64           `json:"expires_in"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "token-T", resp.Token)
			assert.Equal(t, "a@x.com", resp.Data.Email)
			assert.InDelta(t, 3600, resp.ExpiresIn, 5)
		})
	}
}

func TestAuthHandler_GoogleAuth(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       api.GoogleAuthRequest{IDToken: "google-token"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid assertion",
			body:       api.GoogleAuthRequest{IDToken: "forged"},
			serviceErr: session.ErrInvalidAssertion,
			wantStatus: http.StatusUnauthorized,
			wantCode:   CodeInvalidAssertion,
		},
		{
			name:       "missing email",
			body:       api.GoogleAuthRequest{IDToken: "no-email"},
			serviceErr: session.ErrMissingEmail,
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeMissingEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAssertion string
			svc := &mockSessionService{
				loginWithIdentityFn: func(_ context.Context, assertion string) (*session.LoginResult, error) {
					gotAssertion = assertion
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &session.LoginResult{User: testUser(), Token: "token-G", ExpiresAt: time.Now().Add(time.Hour)}, nil
				},
			}
			h := NewAuthHandler(setupTestLogger(), svc, metrics.Noop{})

			w := doRequest(t, h.GoogleAuth, http.MethodPost, "/api/v1/user/auth/google", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.body.(api.GoogleAuthRequest).IDToken, gotAssertion)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
			}
		})
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	tests := []struct {
		name       string
		header     map[string]string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			header:     map[string]string{"Authorization": "Bearer T"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeMissingToken,
		},
		{
			name:       "revoked token",
			header:     map[string]string{"Authorization": "Bearer T"},
			serviceErr: session.ErrUnauthenticated,
			wantStatus: http.StatusUnauthorized,
			wantCode:   CodeUnauthenticated,
		},
		{
			name:       "user deleted",
			header:     map[string]string{"Authorization": "Bearer T"},
			serviceErr: session.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSessionService{
				profileFn: func(_ context.Context, token string) (*models.User, error) {
					assert.Equal(t, "T", token)
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return testUser(), nil
				},
			}
			h := NewAuthHandler(setupTestLogger(), svc, metrics.Noop{})

			w := doRequest(t, h.Profile, http.MethodGet, "/api/v1/user/profile", nil, tt.header)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
				return
			}

			var resp struct {
				Data api.UserProfile `json:"data"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "Alice", resp.Data.Name)
			assert.Equal(t, "a@x.com", resp.Data.Email)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockSessionService{}
		rec := &recordingMetrics{}
		h := NewAuthHandler(setupTestLogger(), svc, rec)

		w := doRequest(t, h.Logout, http.MethodPost, "/api/v1/user/logout", nil,
			map[string]string{"Authorization": "Bearer anything"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"anything"}, svc.loggedOut)
		assert.Equal(t, 1, rec.revocations)
	})

	t.Run("missing token", func(t *testing.T) {
		svc := &mockSessionService{}
		h := NewAuthHandler(setupTestLogger(), svc, metrics.Noop{})

		w := doRequest(t, h.Logout, http.MethodPost, "/api/v1/user/logout", nil,
			map[string]string{"Authorization": "Basic abc"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeMissingToken, decodeError(t, w).Error)
		assert.Empty(t, svc.loggedOut)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := &mockSessionService{
			logoutFn: func(context.Context, string) error {
				return fmt.Errorf("%w: %w", session.ErrInternal, errors.New("db locked"))
			},
		}
		h := NewAuthHandler(setupTestLogger(), svc, metrics.Noop{})

		w := doRequest(t, h.Logout, http.MethodPost, "/api/v1/user/logout", nil,
			map[string]string{"Authorization": "Bearer T"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandler_ListUsers(t *testing.T) {
	svc := &mockSessionService{
		listUsersFn: func(context.Context) ([]*models.User, error) {
			second := testUser()
			second.ID = "user-2"
			second.Email = "b@x.com"
			return []*models.User{testUser(), second}, nil
		},
	}
	h := NewAuthHandler(setupTestLogger(), svc, metrics.Noop{})

	t.Run("requires user in context", func(t *testing.T) {
		w := doRequest(t, h.ListUsers, http.MethodGet, "/api/v1/user/users", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/user/users", nil)
		req = req.WithContext(WithUser(req.Context(), testUser()))
		w := httptest.NewRecorder()

		h.ListUsers(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "secret-hash")

		var resp struct {
			Data []api.UserProfile `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "b@x.com", resp.Data[1].Email)
	})
}
