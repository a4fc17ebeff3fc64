// Package auth issues and verifies the signed session tokens carried by the
// session cookie.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie the browser and the SDK carry between calls.
const SessionCookie = "taskdeck_session"

const sessionTTL = 3 * time.Hour

type JWT struct {
	Secret string
}

func (j *JWT) CreateToken(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(sessionTTL).Unix(),
	})

	return token.SignedString([]byte(j.Secret))
}

func (j *JWT) VerifyToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(j.Secret), nil
	})

	if err != nil {
		return 0, err
	}

	if !token.Valid {
		return 0, fmt.Errorf("invalid session token")
	}

	claims := token.Claims.(jwt.MapClaims)

	userID, ok := claims["user_id"].(float64)

	if !ok {
		return 0, fmt.Errorf("malformed session token")
	}

	return int(userID), nil
}

func secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}

	// Dev fallback; set SESSION_SECRET for anything beyond local use.
	return "taskdeck-dev-secret"
}

// CreateSessionToken signs a token for userID with the configured secret.
func CreateSessionToken(userID int) (string, error) {
	j := JWT{Secret: secret()}
	return j.CreateToken(userID)
}

// VerifySessionToken returns the user id carried by a valid token.
func VerifySessionToken(token string) (int, error) {
	j := JWT{Secret: secret()}
	return j.VerifyToken(token)
}
