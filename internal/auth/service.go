// Package auth handles login, logout and token validation for citizens,
// department officials and administrators.
package auth

import (
	"context"
	"errors"
	"fmt"
	"grievance/backend/internal/models"
	"grievance/backend/internal/session"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type userStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Service implements the auth operations behind /api/auth.
type Service struct {
	users   userStore
	jwt     *JWTManager
	revoked session.RevocationStore
}

func NewService(users userStore, jwt *JWTManager, revoked session.RevocationStore) *Service {
	return &Service{users: users, jwt: jwt, revoked: revoked}
}

// Login checks email and password and returns a signed token.
// Unknown email and wrong password both yield models.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var fieldErrs []models.FieldError
	if email == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "email", Message: "required"})
	}
	if password == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "password", Message: "required"})
	}
	if len(fieldErrs) > 0 {
		return "", &models.ValidationError{Errors: fieldErrs}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrUnauthorized
		}
		return "", fmt.Errorf("auth.Login get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrUnauthorized
	}

	token, sess, err := s.jwt.Issue(user)
	if err != nil {
		return "", fmt.Errorf("auth.Login issue token: %w", err)
	}

	log.Printf("INFO: User %s logged in as %s", sess.UserID, sess.Role)
	return token, nil
}

// Logout revokes the session's token until it expires.
func (s *Service) Logout(ctx context.Context, sess session.Session) error {
	if sess.Expired(s.jwt.now()) {
		return nil
	}
	if err := s.revoked.Revoke(ctx, sess.TokenID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}
	return nil
}

// Authenticate turns a bearer token into a session. Invalid, expired and
// revoked tokens yield models.ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (session.Session, error) {
	sess, err := s.jwt.Parse(token)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, sess.TokenID)
	if err != nil {
		return session.Session{}, fmt.Errorf("auth.Authenticate: %w", err)
	}
	if revoked {
		return session.Session{}, fmt.Errorf("%w: token revoked", models.ErrUnauthorized)
	}
	return sess, nil
}

// Me returns the user behind the session. A user deleted after the token
// was issued yields models.ErrUnauthorized.
func (s *Service) Me(ctx context.Context, sess session.Session) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, sess.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("auth.Me: %w", err)
	}
	return user, nil
}

// HashPassword returns the bcrypt hash stored for a user.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
