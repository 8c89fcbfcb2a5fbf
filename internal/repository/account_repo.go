package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/arsalan-d/MomentumBack/internal/models"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository reads and writes the users and coaches tables. The two
// tables have the same shape but independent id sequences; the role picks
// the table.
type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func tableForRole(role string) string {
	if role == models.RoleCoach {
		return "coaches"
	}
	return "users"
}

func (r *AccountRepository) Create(ctx context.Context, role string, account *models.Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, tableForRole(role))
	return r.db.QueryRow(ctx, query, account.Email, account.PasswordHash).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, role, email string) (*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, created_at, updated_at
		FROM %s
		WHERE email = $1
	`, tableForRole(role))

	var account models.Account
	err := r.db.QueryRow(ctx, query, email).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, role string, id int64) (*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, tableForRole(role))

	var account models.Account
	err := r.db.QueryRow(ctx, query, id).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
