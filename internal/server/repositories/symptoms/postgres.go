// Package symptoms provides the PostgreSQL-backed symptom diary.
package symptoms

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gastrohealth/internal/dbx"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

// PostgresRepository stores symptom entries over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add inserts entry for userID and fills in its ID.
func (r *PostgresRepository) Add(ctx context.Context, userID string, entry *models.SymptomLog) error {
	query := `
		INSERT INTO symptoms (id, user_id, logged_at, symptoms, severity, foods, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	list, err := json.Marshal(entry.Symptoms)
	if err != nil {
		return fmt.Errorf("encode symptoms: %w", err)
	}

	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, query,
		id, userID, entry.Date, list, entry.Severity, entry.Foods, entry.Notes); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	entry.ID = id
	return nil
}

// ListByUser returns the diary of userID in the order entries were logged.
// An empty diary is an empty non-nil slice.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.SymptomLog, error) {
	query := `SELECT id, logged_at, symptoms, severity, foods, notes FROM symptoms
		WHERE user_id=$1 ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select symptoms: %w", err)
	}
	defer rows.Close()

	result := []models.SymptomLog{}
	for rows.Next() {
		var (
			item models.SymptomLog
			list []byte
		)
		if err := rows.Scan(&item.ID, &item.Date, &list, &item.Severity, &item.Foods, &item.Notes); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(list, &item.Symptoms); err != nil {
			return nil, fmt.Errorf("decode symptoms: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
