package client

import (
	"context"

	"github.com/rs/zerolog"
)

// State is the position of the auth state machine.
type State string

const (
	StateLoggedOut           State = "logged_out"
	StateAwaitingCredentials State = "awaiting_credentials"
	StateAwaitingChallenge   State = "awaiting_challenge"
	StateLoggedIn            State = "logged_in"
)

const (
	defaultLoginError     = "Invalid credentials."
	defaultSignupError    = "Signup failed."
	defaultChallengeError = "Challenge submission failed."
)

// Session drives login, signup and logout against a backend. A failed
// transition changes nothing but the error field. The machine is cyclic:
// there is no terminal state.
type Session struct {
	backend Backend
	logger  zerolog.Logger

	state     State
	username  string
	authError string

	challenge      *Challenge
	signupUsername string
}

type SessionOption func(*Session)

func WithSessionLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

func NewSession(backend Backend, opts ...SessionOption) *Session {
	s := &Session{
		backend: backend,
		logger:  zerolog.Nop(),
		state:   StateLoggedOut,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) IsLoggedIn() bool {
	return s.state == StateLoggedIn
}

func (s *Session) Username() string {
	return s.username
}

func (s *Session) AuthError() string {
	return s.authError
}

// Challenge returns the pending signup challenge, nil outside
// StateAwaitingChallenge.
func (s *Session) Challenge() *Challenge {
	return s.challenge
}

// Begin opens the credentials form. It is the only way into
// StateAwaitingCredentials from StateLoggedOut.
func (s *Session) Begin() {
	if s.state == StateLoggedOut {
		s.state = StateAwaitingCredentials
		s.authError = ""
	}
}

// Login authenticates from StateLoggedOut or StateAwaitingCredentials. On
// failure the state stays put and only the error field changes.
func (s *Session) Login(ctx context.Context, username, password string) Result {
	if s.state != StateLoggedOut && s.state != StateAwaitingCredentials {
		return fail(defaultLoginError)
	}

	resolved, err := s.backend.Login(ctx, username, password)

	if err != nil {
		s.authError = messageOrDefault(err, defaultLoginError)
		return fail(s.authError)
	}

	s.state = StateLoggedIn
	s.username = resolved
	s.authError = ""
	s.challenge = nil

	return ok()
}

// StartSignup requests a challenge for the username. Success moves to
// StateAwaitingChallenge; failure stays in StateAwaitingCredentials.
func (s *Session) StartSignup(ctx context.Context, username string) Result {
	if s.state == StateLoggedIn {
		return fail(defaultSignupError)
	}

	challenge, err := s.backend.StartSignup(ctx, username)

	if err != nil {
		s.state = StateAwaitingCredentials
		s.authError = messageOrDefault(err, defaultSignupError)
		return fail(s.authError)
	}

	s.state = StateAwaitingChallenge
	s.challenge = &challenge
	s.signupUsername = username
	s.authError = ""

	return ok()
}

// CompleteSignup submits the challenge answer. The pending challenge is
// consumed either way; after a failure a fresh one must come from
// StartSignup.
func (s *Session) CompleteSignup(ctx context.Context, password string, answer int) Result {
	if s.state != StateAwaitingChallenge || s.challenge == nil {
		return fail(defaultChallengeError)
	}

	username := s.signupUsername
	challengeID := s.challenge.ID
	s.challenge = nil

	resolved, err := s.backend.CompleteSignup(ctx, username, password, challengeID, answer)

	if err != nil {
		s.state = StateAwaitingCredentials
		s.authError = messageOrDefault(err, defaultChallengeError)
		return fail(s.authError)
	}

	s.state = StateLoggedIn
	s.username = resolved
	s.signupUsername = ""
	s.authError = ""

	return ok()
}

// Logout always resets local state. A failing backend call is logged and
// swallowed.
func (s *Session) Logout(ctx context.Context) Result {
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("logout call failed")
	}

	s.state = StateLoggedOut
	s.username = ""
	s.authError = ""
	s.challenge = nil
	s.signupUsername = ""

	return ok()
}

// CheckLoginStatus asks the backend whether a session already exists. Run once at
// startup to recover a session across reloads.
func (s *Session) CheckLoginStatus(ctx context.Context) Result {
	username, err := s.backend.Profile(ctx)

	if err != nil {
		s.state = StateLoggedOut
		s.username = ""
		return fail("")
	}

	s.state = StateLoggedIn
	s.username = username
	s.authError = ""

	return ok()
}

func messageOrDefault(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}

	return err.Error()
}
