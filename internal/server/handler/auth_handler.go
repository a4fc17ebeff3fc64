// Package handler holds the gin handlers for the API surface.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"taskdeck/internal/server/helper"
	"taskdeck/internal/server/middleware"
	"taskdeck/internal/service"
	"taskdeck/internal/shared"
	"taskdeck/pkg/auth"

	"github.com/gin-gonic/gin"
)

const sessionMaxAge = 3 * 60 * 60

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
}

type ChallengeSubmitRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	ChallengeID string `json:"challengeId" binding:"required"`
	Answer      int    `json:"answer"`
}

// LoginRequest carries the raw password under the passwordHash key. The
// field name is a wire-contract legacy; hashing happens at rest only.
type LoginRequest struct {
	Username     string `json:"username" binding:"required"`
	PasswordHash string `json:"passwordHash" binding:"required"`
}

type ProfileResponse struct {
	Username string `json:"username"`
}

type AuthHandler struct {
	svc     *service.AuthService
	metrics *shared.AppMetrics
}

func NewAuthHandler(svc *service.AuthService, metrics *shared.AppMetrics) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		metrics: metrics,
	}
}

// Signup starts registration and returns the arithmetic challenge the
// client must answer to complete it.
func (a *AuthHandler) Signup(c *gin.Context) {
	ctx := c.Request.Context()

	var params SignupRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	challenge, err := a.svc.StartSignup(ctx, params.Username)

	if err != nil {
		a.recordAuth(c, "signup", "failure")

		if errors.Is(err, service.ErrUsernameTaken) {
			helper.SendBadRequestError(c, "username", "Username already taken.")
			return
		}

		slog.Error("Signup", "error", err)
		helper.SendInternalError(c, "Signup failed.")
		return
	}

	a.recordAuth(c, "signup", "success")
	helper.SendSuccess(c, http.StatusOK, challenge)
}

// SubmitChallenge completes signup. A correct answer creates the account
// and opens a session.
func (a *AuthHandler) SubmitChallenge(c *gin.Context) {
	ctx := c.Request.Context()

	var params ChallengeSubmitRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	user, err := a.svc.CompleteSignup(ctx, params.Username, params.Password, params.ChallengeID, params.Answer)

	if err != nil {
		a.recordAuth(c, "challenge", "failure")

		switch {
		case errors.Is(err, service.ErrChallengeFailed):
			helper.SendBadRequestError(c, "challenge", "Challenge failed or expired.")
		case errors.Is(err, service.ErrUsernameTaken):
			helper.SendBadRequestError(c, "username", "Username already taken.")
		default:
			slog.Error("SubmitChallenge", "error", err)
			helper.SendInternalError(c, "Signup failed.")
		}

		return
	}

	if err := a.openSession(c, user.ID); err != nil {
		a.recordAuth(c, "challenge", "failure")
		helper.SendInternalError(c, "Signup failed.")
		return
	}

	a.recordAuth(c, "challenge", "success")
	helper.SendSuccess(c, http.StatusOK, ProfileResponse{Username: user.Username})
}

func (a *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var params LoginRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	user, err := a.svc.Authenticate(ctx, params.Username, params.PasswordHash)

	if err != nil {
		a.recordAuth(c, "login", "failure")
		helper.SendUnauthorizedError(c, "Invalid credentials.")
		return
	}

	if err := a.openSession(c, user.ID); err != nil {
		a.recordAuth(c, "login", "failure")
		helper.SendUnauthorizedError(c, "Invalid credentials.")
		return
	}

	a.recordAuth(c, "login", "success")
	helper.SendSuccess(c, http.StatusOK, ProfileResponse{Username: user.Username})
}

func (a *AuthHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := middleware.CurrentUserID(c)

	if !ok {
		helper.SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	user, err := a.svc.Profile(ctx, userID)

	if err != nil {
		helper.SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	helper.SendSuccess(c, http.StatusOK, ProfileResponse{Username: user.Username})
}

// Logout clears the session cookie. It never fails from the client's
// point of view.
func (a *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	a.recordAuth(c, "logout", "success")
	helper.SendSuccess(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (a *AuthHandler) openSession(c *gin.Context, userID int) error {
	token, err := auth.CreateSessionToken(userID)

	if err != nil {
		slog.Error("openSession", "error", err)
		return err
	}

	c.SetCookie(auth.SessionCookie, token, sessionMaxAge, "/", "", false, true)
	return nil
}

func (a *AuthHandler) recordAuth(c *gin.Context, operation, outcome string) {
	if a.metrics != nil {
		a.metrics.RecordAuthOperation(operation, outcome)
	}
}
