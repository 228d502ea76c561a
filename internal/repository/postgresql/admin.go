package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dailylog/dailylog-backend-go/internal/domain/auth"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type adminRepositoryImpl struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) auth.AdminRepository {
	return &adminRepositoryImpl{db: db}
}

const adminColumns = `
	id, admin_id, full_name, email, password_hash, created_at, updated_at
`

func scanAdmin(row pgx.Row) (auth.Admin, error) {
	var admin auth.Admin
	err := row.Scan(
		&admin.ID,
		&admin.AdminID,
		&admin.FullName,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	return admin, err
}

// Create implements auth.AdminRepository.
func (r *adminRepositoryImpl) Create(ctx context.Context, admin auth.Admin) (auth.Admin, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO admins (admin_id, full_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + adminColumns + `
	`

	created, err := scanAdmin(q.QueryRow(ctx, insertQuery,
		admin.AdminID,
		admin.FullName,
		admin.Email,
		admin.PasswordHash,
	))
	if err != nil {
		return auth.Admin{}, fmt.Errorf("create admin: %w", err)
	}
	return created, nil
}

// GetByEmail implements auth.AdminRepository.
func (r *adminRepositoryImpl) GetByEmail(ctx context.Context, email string) (auth.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + adminColumns + ` FROM admins WHERE LOWER(email) = LOWER($1)`

	admin, err := scanAdmin(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Admin{}, auth.ErrAdminNotFound
		}
		return auth.Admin{}, fmt.Errorf("get admin by email: %w", err)
	}
	return admin, nil
}

// GetByID implements auth.AdminRepository.
func (r *adminRepositoryImpl) GetByID(ctx context.Context, id string) (auth.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	admin, err := scanAdmin(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Admin{}, auth.ErrAdminNotFound
		}
		return auth.Admin{}, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}

// UpdatePassword implements auth.AdminRepository.
func (r *adminRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE admins
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, updateQuery, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrAdminNotFound
	}
	return nil
}
