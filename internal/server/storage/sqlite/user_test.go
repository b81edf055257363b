package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/storage"
)

func newUser(email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         "Name " + email,
		PasswordHash: "hash123",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	withProfile := newUser("profile@example.com")
	withProfile.ProfileLink = "https://example.com/a.png"
	withProfile.LastLogin = timePtr(time.Now())

	tests := []struct {
		user *models.User
		name string
	}{
		{
			name: "create new user successfully",
			user: newUser("first@example.com"),
		},
		{
			name: "create user with profile link and last login",
			user: withProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx, tt.user)
			require.NoError(t, err)

			// Verify user was created
			retrieved, err := s.GetUserByEmail(ctx, tt.user.Email)
			require.NoError(t, err)
			assert.Equal(t, tt.user.ID, retrieved.ID)
			assert.Equal(t, tt.user.Email, retrieved.Email)
			assert.Equal(t, tt.user.Name, retrieved.Name)
			assert.Equal(t, tt.user.PasswordHash, retrieved.PasswordHash)
			assert.Equal(t, tt.user.ProfileLink, retrieved.ProfileLink)
			assert.WithinDuration(t, tt.user.CreatedAt, retrieved.CreatedAt, time.Second)
			assert.Equal(t, tt.user.LastLogin != nil, retrieved.LastLogin != nil)
		})
	}
}

func TestUserStorage_CreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.CreateUser(ctx, newUser("duplicate@example.com"))
	require.NoError(t, err)

	// Same email, different ID
	err = s.CreateUser(ctx, newUser("duplicate@example.com"))
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestUserStorage_CreateUser_ConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	const workers = 8
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreateUser(ctx, newUser("race@example.com"))
		}(i)
	}
	wg.Wait()

	var succeeded, duplicates int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
		duplicates++
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, duplicates)
}

func TestUserStorage_GetUserByEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newUser("findme@example.com")
	user.LastLogin = timePtr(time.Now())
	require.NoError(t, s.CreateUser(ctx, user))

	tests := []struct {
		wantError error
		name      string
		email     string
	}{
		{
			name:      "get existing user",
			email:     "findme@example.com",
			wantError: nil,
		},
		{
			name:      "get non-existent user",
			email:     "notfound@example.com",
			wantError: storage.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retrieved, err := s.GetUserByEmail(ctx, tt.email)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, retrieved)
			} else {
				require.NoError(t, err)
				assert.Equal(t, user.ID, retrieved.ID)
				assert.Equal(t, user.Email, retrieved.Email)
				assert.NotNil(t, retrieved.LastLogin)
			}
		})
	}
}

func TestUserStorage_GetUserByEmail_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	retrieved, err := s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, retrieved)
}

func TestUserStorage_ListUsers(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	first := newUser("a@example.com")
	second := newUser("b@example.com")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, s.CreateUser(ctx, second))
	require.NoError(t, s.CreateUser(ctx, first))

	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, first.Email, users[0].Email)
	assert.Equal(t, second.Email, users[1].Email)
}

func TestUserStorage_UpdateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newUser("original@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	tests := []struct {
		wantError error
		updates   *models.User
		name      string
	}{
		{
			name: "update name and profile link",
			updates: &models.User{
				ID:           user.ID,
				Name:         "Updated",
				PasswordHash: "newhash",
				ProfileLink:  "https://example.com/new.png",
				UpdatedAt:    time.Now(),
			},
			wantError: nil,
		},
		{
			name: "update non-existent user",
			updates: &models.User{
				ID:        "nonexistent",
				Name:      "foo",
				UpdatedAt: time.Now(),
			},
			wantError: storage.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.UpdateUser(ctx, tt.updates)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				require.NoError(t, err)

				// Verify updates
				retrieved, err := s.GetUserByEmail(ctx, user.Email)
				require.NoError(t, err)
				assert.Equal(t, tt.updates.Name, retrieved.Name)
				assert.Equal(t, tt.updates.PasswordHash, retrieved.PasswordHash)
				assert.Equal(t, tt.updates.ProfileLink, retrieved.ProfileLink)
				// email не меняется
				assert.Equal(t, user.Email, retrieved.Email)
			}
		})
	}
}

func TestUserStorage_UpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newUser("login@example.com")
	require.NoError(t, s.CreateUser(ctx, user))
	userID := user.ID

	tests := []struct {
		loginTime time.Time
		wantError error
		name      string
		userID    string
	}{
		{
			name:      "update last login for existing user",
			userID:    userID,
			loginTime: time.Now(),
			wantError: nil,
		},
		{
			name:      "update last login for non-existent user",
			userID:    "nonexistent",
			loginTime: time.Now(),
			wantError: storage.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.UpdateLastLogin(ctx, tt.userID, tt.loginTime)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				require.NoError(t, err)

				retrieved, err := s.GetUserByEmail(ctx, user.Email)
				require.NoError(t, err)
				require.NotNil(t, retrieved.LastLogin)
				// Compare times with 1 second tolerance
				assert.WithinDuration(t, tt.loginTime, *retrieved.LastLogin, time.Second)
			}
		})
	}
}
