// Package factory builds test fixtures with fabricator.
package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"
)

func NewTodo[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	if len(customData) > 0 {
		return instance.Build(customData...)
	}

	return instance.Build()
}

// NewUser builds a user fixture. Unless overridden, EncryptedPassword is a
// real bcrypt hash of "12345678" so login paths work against it.
func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	hasEncryptedPassword := false

	for _, data := range customData {
		if _, exists := data["EncryptedPassword"]; exists {
			hasEncryptedPassword = true
			break
		}
	}

	if !hasEncryptedPassword {
		encryptedPassword, _ := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.DefaultCost)

		customData = append(customData, map[string]any{
			"EncryptedPassword": string(encryptedPassword),
		})
	}

	return instance.Build(customData...)
}
