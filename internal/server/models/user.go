// Package models holds the server's storage-side records.
package models

import (
	"time"

	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

// User is a row of the users table. The AI key is stored encrypted.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	APIKeyCipher []byte
	APIKeyNonce  []byte
	Profile      *models.UserProfile
	CreatedAt    time.Time
}

func (u *User) HasAPIKey() bool {
	return len(u.APIKeyCipher) > 0
}

// Public is the user as sent to clients.
func (u *User) Public() *models.User {
	return &models.User{
		Email:     u.Email,
		Profile:   u.Profile.Clone(),
		HasAPIKey: u.HasAPIKey(),
	}
}
