// Package service holds the server-side business logic behind the REST
// handlers: signup challenges, account authentication and todo CRUD.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"taskdeck/internal/store"
	"taskdeck/internal/util"
	"taskdeck/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrChallengeFailed    = errors.New("challenge failed or expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	users      store.UserRepository
	challenges *ChallengeService
}

func NewAuthService(users store.UserRepository, challenges *ChallengeService) *AuthService {
	return &AuthService{users: users, challenges: challenges}
}

// StartSignup begins registration for username by issuing a challenge. The
// account is not created until the challenge is solved.
func (s *AuthService) StartSignup(ctx context.Context, username string) (Challenge, error) {
	var challenge Challenge

	err := tracing.SpanWrapper(ctx, "auth.start_signup", userAttrs(username), func(ctx context.Context) error {
		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			return ErrUsernameTaken
		}

		challenge = s.challenges.Generate()
		return nil
	})

	return challenge, err
}

// CompleteSignup verifies the challenge answer and, on success, registers the
// account and returns it. The password is stored bcrypt-hashed regardless of
// the raw form it arrives in.
func (s *AuthService) CompleteSignup(ctx context.Context, username, password, challengeID string, answer int) (store.User, error) {
	var user store.User

	err := tracing.SpanWrapper(ctx, "auth.complete_signup", userAttrs(username), func(ctx context.Context) error {
		var err error
		user, err = s.completeSignup(ctx, username, password, challengeID, answer)
		return err
	})

	return user, err
}

func (s *AuthService) completeSignup(ctx context.Context, username, password, challengeID string, answer int) (store.User, error) {
	if !s.challenges.Verify(challengeID, answer) {
		return store.User{}, ErrChallengeFailed
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return store.User{}, ErrUsernameTaken
	}

	encrypted, err := util.GenerateEncrypt(password)

	if err != nil {
		return store.User{}, fmt.Errorf("encrypt password: %w", err)
	}

	user, err := s.users.Create(ctx, store.User{
		Username:          username,
		EncryptedPassword: encrypted,
	})

	if err != nil {
		slog.Error("Auth#CompleteSignup", "create_user", err)
		return store.User{}, err
	}

	return user, nil
}

// Authenticate checks the username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (store.User, error) {
	var user store.User

	err := tracing.SpanWrapper(ctx, "auth.authenticate", userAttrs(username), func(ctx context.Context) error {
		found, err := s.users.GetByUsername(ctx, username)

		if err != nil {
			slog.Error("Auth#Authenticate", "get_by_username", err)
			return ErrInvalidCredentials
		}

		if err := util.ComparePassword(password, found.EncryptedPassword); err != nil {
			return ErrInvalidCredentials
		}

		user = found
		return nil
	})

	return user, err
}

// Profile resolves the account for an authenticated user id.
func (s *AuthService) Profile(ctx context.Context, userID int) (store.User, error) {
	var user store.User

	err := tracing.ServiceSpanWrapper(ctx, "auth", "profile", userID, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByID(ctx, userID)
		return err
	})

	return user, err
}

func userAttrs(username string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("user.name", username),
	}
}
