package users

import (
	"context"

	"github.com/dmitrijs2005/gastrohealth/internal/models"
	srv "github.com/dmitrijs2005/gastrohealth/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *srv.User) (*srv.User, error)
	GetByEmail(ctx context.Context, email string) (*srv.User, error)
	GetByID(ctx context.Context, id string) (*srv.User, error)
	UpdateProfile(ctx context.Context, id string, profile *models.UserProfile) error
	UpdateAPIKey(ctx context.Context, id string, cipher, nonce []byte) error
}
