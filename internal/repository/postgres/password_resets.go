package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
)

type PasswordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Latest(ctx context.Context, email string) (models.PasswordResetRequest, error) {
	var req models.PasswordResetRequest
	var ip sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, requested_at, ip_address
		FROM password_reset_requests
		WHERE email = $1
		ORDER BY requested_at DESC
		LIMIT 1
	`, email).Scan(&req.ID, &req.Email, &req.RequestedAt, &ip)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PasswordResetRequest{}, repository.ErrNotFound
	}
	if err != nil {
		return models.PasswordResetRequest{}, err
	}
	req.IPAddress = stringPtr(ip)
	return req, nil
}

func (r *PasswordResetRepository) Insert(ctx context.Context, req *models.PasswordResetRequest) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO password_reset_requests (email, requested_at, ip_address)
		VALUES ($1, $2, $3)
		RETURNING id
	`, req.Email, req.RequestedAt, nullString(req.IPAddress)).Scan(&req.ID)
}

func (r *PasswordResetRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM password_reset_requests WHERE email = $1`, email)
}
