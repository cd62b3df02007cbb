package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgInvalidTextRepr = "22P02"
	userColumns       = `id, email, password_hash, display_name, is_admin, created_at`
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return insertUser(ctx, r.db, user)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) PromoteOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error) {
	var (
		result  *models.User
		created bool
	)

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var id string
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1 FOR UPDATE`, user.Email).Scan(&id)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			user.IsAdmin = true
			result, err = insertUser(ctx, tx, user)
			created = true
			return err
		case err != nil:
			return fmt.Errorf("db error: %w", err)
		}

		query :=
			`UPDATE users SET is_admin = TRUE
			 WHERE id = $1
			 RETURNING ` + userColumns

		result, err = scanUser(tx.QueryRowContext(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, false, err
	}

	return result, created, nil
}

func insertUser(ctx context.Context, db dbx.DBTX, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (email, password_hash, display_name, is_admin)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.DisplayName, user.IsAdmin).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.IsAdmin, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, sql.ErrNoRows) || (errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepr) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
