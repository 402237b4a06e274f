package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kopidesk/identity-service/internal/domain/entity"
	"github.com/kopidesk/identity-service/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, password_hash, role, is_verified, verification_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email, u.FullName, u.PasswordHash, u.Role, u.IsVerified, nullable(u.VerificationCode))

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u := &entity.User{}
	var code *string

	row := r.pool.QueryRow(ctx, `
		SELECT id, email, full_name, password_hash, role, is_verified, verification_code, created_at, updated_at
		FROM users `+where, arg)

	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role,
		&u.IsVerified, &code, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if code != nil {
		u.VerificationCode = *code
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, full_name, password_hash, role, is_verified, verification_code, created_at, updated_at
		FROM users
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u := &entity.User{}
		var code *string
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role,
			&u.IsVerified, &code, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if code != nil {
			u.VerificationCode = *code
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, full_name = $2, password_hash = $3, role = $4,
		    is_verified = $5, verification_code = $6, updated_at = $7
		WHERE id = $8
	`, u.Email, u.FullName, u.PasswordHash, u.Role, u.IsVerified,
		nullable(u.VerificationCode), u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ConsumeVerificationCode flips is_verified and clears the code in one
// statement so a code can only ever be consumed once.
func (r *UserRepository) ConsumeVerificationCode(ctx context.Context, email, code string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_verified = TRUE, verification_code = NULL, updated_at = NOW()
		WHERE email = $1 AND verification_code = $2 AND is_verified = FALSE
	`, email, code)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.UserRepository = (*UserRepository)(nil)
