package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pedlop-auth/internal/cookie"
	"pedlop-auth/internal/model"
	"pedlop-auth/internal/token"
	"pedlop-auth/pkg/apierror"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByUsernameWithPassword(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, id string, fields model.UserUpdate) (bool, error) {
	args := m.Called(ctx, id, fields)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) List(ctx context.Context) ([]model.AuthUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.AuthUser), args.Error(1)
}

func newTestService(t *testing.T, store *mockUserStore) *AuthService {
	t.Helper()

	signer, err := token.NewSigner("test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	return NewAuthService(signer, store)
}

func storedJoe(t *testing.T) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("12345"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	return model.User{
		ID:        "user-1",
		Username:  "joe",
		Email:     "jdoe@x.edu.ng",
		Password:  string(hash),
		FullName:  "John Doe",
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func requireAPIError(t *testing.T, err error, code int, reason string) {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, code, apiErr.Code)
	assert.Equal(t, reason, apiErr.Reason)
}

func issueFor(t *testing.T, svc *AuthService, user model.User) string {
	t.Helper()

	grant, err := svc.IssueSession(user.Public())
	require.NoError(t, err)
	return grant.Cookies[cookie.FieldAccessToken]
}

func TestResolve(t *testing.T) {
	t.Run("valid token returns live user", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)
		user := storedJoe(t)

		store.On("FindByUsername", mock.Anything, "joe").Return(user, nil)

		resolved, err := svc.Resolve(context.Background(), issueFor(t, svc, user), "")
		require.NoError(t, err)
		assert.Equal(t, "user-1", resolved.ID)
		assert.Equal(t, "joe", resolved.Username)
		assert.Equal(t, model.RoleUser, resolved.Role)
		store.AssertExpectations(t)
	})

	t.Run("empty token fails unauthenticated", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		_, err := svc.Resolve(context.Background(), "", "")
		requireAPIError(t, err, 401, "Invalid credentials")
		store.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})

	t.Run("garbage token fails unauthenticated", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		_, err := svc.Resolve(context.Background(), "not-a-token", "")
		requireAPIError(t, err, 401, "Invalid credentials")
	})

	t.Run("disabled user fails inactive", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)
		user := storedJoe(t)
		tokenString := issueFor(t, svc, user)
		user.Disabled = true

		store.On("FindByUsername", mock.Anything, "joe").Return(user, nil)

		_, err := svc.Resolve(context.Background(), tokenString, "")
		requireAPIError(t, err, 400, "Inactive user")
	})

	t.Run("deleted user fails inactive", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)
		user := storedJoe(t)

		store.On("FindByUsername", mock.Anything, "joe").Return(model.User{}, model.ErrUserNotFound)

		_, err := svc.Resolve(context.Background(), issueFor(t, svc, user), "")
		requireAPIError(t, err, 400, "Inactive user")
	})

	t.Run("disabled check precedes role check", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)
		user := storedJoe(t)
		tokenString := issueFor(t, svc, user)
		user.Disabled = true

		store.On("FindByUsername", mock.Anything, "joe").Return(user, nil)

		_, err := svc.Resolve(context.Background(), tokenString, model.RoleAdmin)
		requireAPIError(t, err, 400, "Inactive user")
	})

	t.Run("role mismatch reads like a missing session", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)
		user := storedJoe(t)

		store.On("FindByUsername", mock.Anything, "joe").Return(user, nil)

		_, err := svc.Resolve(context.Background(), issueFor(t, svc, user), model.RoleAdmin)
		requireAPIError(t, err, 401, "Invalid credentials")
	})

	t.Run("matching role passes", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)
		user := storedJoe(t)
		user.Role = model.RoleAdmin

		store.On("FindByUsername", mock.Anything, "joe").Return(user, nil)

		resolved, err := svc.Resolve(context.Background(), issueFor(t, svc, user), model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, resolved.Role)
	})
}

func TestSignin(t *testing.T) {
	t.Run("correct password", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		store.On("FindByUsernameWithPassword", mock.Anything, "joe").Return(storedJoe(t), nil)

		user, err := svc.Signin(context.Background(), "joe", "12345")
		require.NoError(t, err)
		assert.Equal(t, "joe", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		store.On("FindByUsernameWithPassword", mock.Anything, "joe").Return(storedJoe(t), nil)

		_, err := svc.Signin(context.Background(), "joe", "54321")
		requireAPIError(t, err, 401, "Incorrect username or password")
	})

	t.Run("unknown user fails identically", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		store.On("FindByUsernameWithPassword", mock.Anything, "nobody").Return(model.User{}, model.ErrUserNotFound)

		_, err := svc.Signin(context.Background(), "nobody", "12345")
		requireAPIError(t, err, 401, "Incorrect username or password")
	})
}

func TestSignup(t *testing.T) {
	t.Run("hashes password and defaults role", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		store.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			if u.Username != "joe" || u.Email != "jdoe@x.edu.ng" {
				return false
			}
			if u.Role != model.RoleUser || u.Disabled {
				return false
			}
			// Stored password must be a hash of the input, never the input.
			return u.Password != "12345" &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("12345")) == nil
		})).Return(storedJoe(t), nil)

		user, err := svc.Signup(context.Background(), model.SignupRequest{
			Username: "joe",
			Email:    "jdoe@x.edu.ng",
			Password: "12345",
			FullName: "John Doe",
		})
		require.NoError(t, err)
		assert.Equal(t, "joe", user.Username)
		store.AssertExpectations(t)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		_, err := svc.Signup(context.Background(), model.SignupRequest{Username: "joe"})
		requireAPIError(t, err, 400, "Invalid request")
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		_, err := svc.Signup(context.Background(), model.SignupRequest{
			Username: "joe",
			Email:    "not-an-address",
			Password: "12345",
		})
		requireAPIError(t, err, 400, "Invalid request")
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("conflict propagates untouched", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)
		conflict := apierror.New(400, "The username 'joe' already exists", "E11000 duplicate key error")

		store.On("Create", mock.Anything, mock.Anything).Return(model.User{}, conflict)

		_, err := svc.Signup(context.Background(), model.SignupRequest{
			Username: "joe",
			Email:    "jdoe@x.edu.ng",
			Password: "12345",
		})
		requireAPIError(t, err, 400, "The username 'joe' already exists")
	})
}

func TestIssueSession(t *testing.T) {
	store := new(mockUserStore)
	svc := newTestService(t, store)
	user := storedJoe(t)

	grant, err := svc.IssueSession(user.Public())
	require.NoError(t, err)

	assert.Equal(t, "bearer", grant.Cookies[cookie.FieldTokenType])
	assert.NotEmpty(t, grant.Cookies[cookie.FieldAccessToken])
	assert.Equal(t, 30*time.Minute, grant.Lifetime)

	expiry, err := time.Parse(time.RFC3339, grant.Cookies[cookie.FieldTokenExpires])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiry, 5*time.Second)

	assert.True(t, grant.Status.IsLogged)
	assert.Equal(t, "user-1", grant.Status.UserID)
	assert.Equal(t, model.RoleUser, grant.Status.UserRole)
}

func TestUpdateUser(t *testing.T) {
	t.Run("rehashes password", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		store.On("Update", mock.Anything, "user-1", mock.MatchedBy(func(f model.UserUpdate) bool {
			return f.Password != nil && *f.Password != "54321" &&
				bcrypt.CompareHashAndPassword([]byte(*f.Password), []byte("54321")) == nil
		})).Return(true, nil)

		password := "54321"
		updated, err := svc.UpdateUser(context.Background(), "user-1", model.UpdateUserRequest{Password: &password})
		require.NoError(t, err)
		assert.True(t, updated)
		store.AssertExpectations(t)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		store.On("Update", mock.Anything, "user-1", mock.MatchedBy(func(f model.UserUpdate) bool {
			return f.Empty()
		})).Return(false, nil)

		updated, err := svc.UpdateUser(context.Background(), "user-1", model.UpdateUserRequest{})
		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("valid token replaces password", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)
		user := storedJoe(t)

		store.On("FindByUsername", mock.Anything, "joe").Return(user, nil)
		store.On("Update", mock.Anything, "user-1", mock.MatchedBy(func(f model.UserUpdate) bool {
			return f.Password != nil && f.Username == nil && f.Email == nil
		})).Return(true, nil)

		updated, err := svc.ResetPassword(context.Background(), issueFor(t, svc, user), "54321")
		require.NoError(t, err)
		assert.True(t, updated)
		store.AssertExpectations(t)
	})

	t.Run("invalid token never reaches the store", func(t *testing.T) {
		store := new(mockUserStore)
		svc := newTestService(t, store)

		_, err := svc.ResetPassword(context.Background(), "garbage", "54321")
		requireAPIError(t, err, 401, "Invalid credentials")
		store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}
