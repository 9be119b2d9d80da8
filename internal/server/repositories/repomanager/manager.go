package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gastrohealth/internal/dbx"
	"github.com/dmitrijs2005/gastrohealth/internal/server/repositories/symptoms"
	"github.com/dmitrijs2005/gastrohealth/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Symptoms(db dbx.DBTX) symptoms.Repository
}
