package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pedlop-auth/internal/cookie"
	"pedlop-auth/internal/model"
	"pedlop-auth/internal/token"
	"pedlop-auth/pkg/apierror"
)

// userStore is the slice of the user directory this service consumes.
type userStore interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByUsernameWithPassword(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Update(ctx context.Context, id string, fields model.UserUpdate) (bool, error)
	List(ctx context.Context) ([]model.AuthUser, error)
}

// SessionGrant is an issued session: the cookie field set, its lifetime and
// the client-facing status payload.
type SessionGrant struct {
	Cookies  map[string]string
	Lifetime time.Duration
	Status   model.SessionStatus
}

type AuthService struct {
	signer *token.Signer
	users  userStore
}

func NewAuthService(signer *token.Signer, users userStore) *AuthService {
	return &AuthService{signer: signer, users: users}
}

func invalidCredentials() *apierror.APIError {
	return apierror.New(http.StatusUnauthorized, "Invalid credentials",
		"Could not validate credentials - invalid token, cookie or permission")
}

func inactiveUser() *apierror.APIError {
	return apierror.New(http.StatusBadRequest, "Inactive user",
		"This user has been disabled or does not exist")
}

// Signup hashes the password and writes the new user through the directory.
// Uniqueness conflicts surface from the store as Conflict errors naming the
// colliding field.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.AuthUser, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" || email == "" || req.Password == "" {
		return model.AuthUser{}, apierror.New(http.StatusBadRequest, "Invalid request",
			"username, email and password are required")
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return model.AuthUser{}, apierror.New(http.StatusBadRequest, "Invalid request",
			"email is not a valid address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthUser{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Password:  string(hash),
		FullName:  strings.TrimSpace(req.FullName),
		Disabled:  false,
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return model.AuthUser{}, err
	}

	return created.Public(), nil
}

// Signin verifies the password against the stored hash. A missing user and a
// wrong password are reported identically.
func (s *AuthService) Signin(ctx context.Context, username string, password string) (model.AuthUser, error) {
	failure := apierror.New(http.StatusUnauthorized, "Incorrect username or password",
		"Could not validate credentials")

	user, err := s.users.FindByUsernameWithPassword(ctx, strings.TrimSpace(username))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthUser{}, failure
	}
	if err != nil {
		return model.AuthUser{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return model.AuthUser{}, failure
	}

	return user.Public(), nil
}

// IssueSession signs a fresh token for the user and builds the cookie field
// set that carries it.
func (s *AuthService) IssueSession(user model.AuthUser) (SessionGrant, error) {
	signed, expiresAt, err := s.signer.Issue(user.Username, user.ID, user.Role, 0)
	if err != nil {
		return SessionGrant{}, err
	}

	expiresIn := expiresAt.Format(time.RFC3339)

	return SessionGrant{
		Cookies: map[string]string{
			cookie.FieldTokenType:    "bearer",
			cookie.FieldAccessToken:  signed,
			cookie.FieldTokenExpires: expiresIn,
		},
		Lifetime: s.signer.TTL(),
		Status: model.SessionStatus{
			IsLogged:  true,
			UserID:    user.ID,
			ExpiresIn: expiresIn,
			UserRole:  user.Role,
		},
	}, nil
}

// Resolve validates a token and returns the live user behind it. The stored
// record is always re-fetched; claims beyond identity and role are never
// trusted. requiredRole, when non-empty, must match exactly -- a mismatch is
// indistinguishable from an invalid token by design.
func (s *AuthService) Resolve(ctx context.Context, tokenString string, requiredRole model.Role) (model.AuthUser, error) {
	if tokenString == "" {
		return model.AuthUser{}, invalidCredentials()
	}

	claims, err := s.signer.Verify(tokenString)
	if err != nil {
		return model.AuthUser{}, invalidCredentials()
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthUser{}, inactiveUser()
	}
	if err != nil {
		return model.AuthUser{}, err
	}

	// The disabled check precedes the role check.
	if user.Disabled {
		return model.AuthUser{}, inactiveUser()
	}

	if requiredRole != "" && user.Role != requiredRole {
		return model.AuthUser{}, invalidCredentials()
	}

	return user.Public(), nil
}

// UpdateUser applies a partial update, re-hashing the password when one is
// present. Returns whether a record matched; an empty request is (false, nil).
func (s *AuthService) UpdateUser(ctx context.Context, id string, req model.UpdateUserRequest) (bool, error) {
	fields := model.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Disabled: req.Disabled,
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return false, fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hash)
		fields.Password = &hashed
	}

	return s.users.Update(ctx, id, fields)
}

// ResetPassword resolves the token carried in the reset request and replaces
// the password of the user it identifies.
func (s *AuthService) ResetPassword(ctx context.Context, tokenString string, newPassword string) (bool, error) {
	user, err := s.Resolve(ctx, tokenString, "")
	if err != nil {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	hashed := string(hash)
	return s.users.Update(ctx, user.ID, model.UserUpdate{Password: &hashed})
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.AuthUser, error) {
	return s.users.List(ctx)
}
