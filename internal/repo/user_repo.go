package repo

import (
	"context"
	"errors"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userColumns   = `id, name, email, token, password_hash, created_at, updated_at`
	usersEmailKey = "users_email_key"
)

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (name, email, token, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	out, err := scanPGUser(r.db.QueryRow(ctx, query, u.Name, u.Email, u.Token, u.PasswordHash))
	if utils.IsPGUniqueViolation(err, usersEmailKey) {
		return dom.User{}, ErrEmailTaken
	}
	return out, err
}

// GetByID returns the user by id.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	return scanPGUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByToken returns the user owning the bearer token.
func (r *PGUserRepo) GetByToken(ctx context.Context, token string) (dom.User, error) {
	return scanPGUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE token = $1`, token))
}

func scanPGUser(row pgx.Row) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Token, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, ErrNotFound
	}
	return u, err
}
