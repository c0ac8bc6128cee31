package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	store
}

func NewUserRepository(read, write *pgxpool.Pool, timeout time.Duration) *UserRepository {
	return &UserRepository{store{read: read, write: write, timeout: timeout}}
}

const userColumns = `id, username, COALESCE(email, ''), name, gender, password_hash, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Name, &user.Gender, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create relies on the unique constraints on username and email. A username
// equal to another account's email is rejected as well.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (username, email, name, gender, password_hash)
		SELECT $1, NULLIF($2, ''), $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM users WHERE email = $1 OR username = NULLIF($2, '')
		)
		RETURNING id, created_at`
	err := r.write.QueryRow(ctx, query, user.Username, user.Email, user.Name, user.Gender, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// the NOT EXISTS guard filtered the insert
		return fmt.Errorf("create user %q: %w", user.Username, apperror.ErrDuplicateIdentity)
	}
	return translate(err, fmt.Sprintf("create user %q", user.Username))
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.write.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("user %d", id))
	}
	return user, nil
}

func (r *UserRepository) FindByIdentity(ctx context.Context, identity string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1 ORDER BY id LIMIT 1`
	user, err := scanUser(r.write.QueryRow(ctx, query, identity))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("user %q", identity))
	}
	return user, nil
}
