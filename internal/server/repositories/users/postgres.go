package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/gastrohealth/internal/common"
	"github.com/dmitrijs2005/gastrohealth/internal/dbx"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
	srv "github.com/dmitrijs2005/gastrohealth/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the user with a fresh id. A taken email yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *srv.User) (*srv.User, error) {
	query :=
		`INSERT INTO users (id, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`

	user.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Email, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const selectUser = `SELECT id, email, password_hash, api_key_cipher, api_key_nonce, profile, created_at FROM users`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*srv.User, error) {
	return r.get(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*srv.User, error) {
	return r.get(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) get(ctx context.Context, query string, arg any) (*srv.User, error) {
	var (
		user    srv.User
		profile []byte
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.APIKeyCipher, &user.APIKeyNonce, &profile, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(profile) > 0 && string(profile) != "null" {
		user.Profile = &models.UserProfile{}
		if err := json.Unmarshal(profile, user.Profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}

	return &user, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, profile *models.UserProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return r.update(ctx, `UPDATE users SET profile = $2 WHERE id = $1`, id, payload)
}

func (r *PostgresRepository) UpdateAPIKey(ctx context.Context, id string, cipher, nonce []byte) error {
	return r.update(ctx, `UPDATE users SET api_key_cipher = $2, api_key_nonce = $3 WHERE id = $1`, id, cipher, nonce)
}

func (r *PostgresRepository) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
