package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gastrohealth/internal/common"
	"github.com/dmitrijs2005/gastrohealth/internal/dbx"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
	"github.com/dmitrijs2005/gastrohealth/internal/server/repositories/repomanager"
)

type SymptomService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewSymptomService(db *sql.DB, m repomanager.RepositoryManager) *SymptomService {
	return &SymptomService{db: db, repomanager: m, now: time.Now}
}

// Add appends entry to the user's diary and returns the whole updated diary.
// Both happen in one transaction so the list always contains the new entry.
func (s *SymptomService) Add(ctx context.Context, userID string, entry *models.SymptomLog) ([]models.SymptomLog, error) {
	if err := validateSymptom(entry); err != nil {
		return nil, err
	}
	if entry.Date.IsZero() {
		entry.Date = s.now().UTC()
	}

	var list []models.SymptomLog
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Symptoms(tx)
		if err := repo.Add(ctx, userID, entry); err != nil {
			return fmt.Errorf("error adding symptom: %w", err)
		}
		var err error
		list, err = repo.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("error listing symptoms: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return list, nil
}

func validateSymptom(entry *models.SymptomLog) error {
	if entry == nil {
		return fmt.Errorf("%w: symptom is required", common.ErrorValidation)
	}
	kept := entry.Symptoms[:0:0]
	for _, s := range entry.Symptoms {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("%w: at least one symptom is required", common.ErrorValidation)
	}
	if entry.Severity < models.MinSeverity || entry.Severity > models.MaxSeverity {
		return fmt.Errorf("%w: severity must be between %d and %d",
			common.ErrorValidation, models.MinSeverity, models.MaxSeverity)
	}
	entry.Symptoms = kept
	return nil
}
