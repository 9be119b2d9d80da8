package symptoms

import (
	"context"

	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

type Repository interface {
	Add(ctx context.Context, userID string, entry *models.SymptomLog) error
	ListByUser(ctx context.Context, userID string) ([]models.SymptomLog, error)
}
