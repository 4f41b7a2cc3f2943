package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/google/uuid"
)

const entryColumns = `id, user_id, title, content, created_at, updated_at, ip_address, duration_str`

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var ip sql.NullString
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.CreatedAt, &e.UpdatedAt, &ip, &e.Duration); err != nil {
		return models.Entry{}, err
	}
	e.IPAddress = stringPtr(ip)
	return e, nil
}

func (r *EntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *EntryRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Entry, error) {
	return r.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
}

func (r *EntryRepository) GetOwned(ctx context.Context, userID uuid.UUID, id int64) (models.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, repository.ErrNotFound
	}
	return e, err
}

func (r *EntryRepository) Create(ctx context.Context, e *models.Entry) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO entries (user_id, title, content, created_at, updated_at, ip_address, duration_str)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, e.UserID, e.Title, e.Content, e.CreatedAt, e.UpdatedAt, nullString(e.IPAddress), e.Duration).Scan(&e.ID)
}

func (r *EntryRepository) Update(ctx context.Context, e *models.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE entries
		SET title = $1, content = $2, duration_str = $3, ip_address = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`, e.Title, e.Content, e.Duration, nullString(e.IPAddress), e.UpdatedAt, e.ID, e.UserID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *EntryRepository) DeleteOwned(ctx context.Context, userID uuid.UUID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *EntryRepository) Count(ctx context.Context) (int64, error) {
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM entries`)
}

func (r *EntryRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM entries WHERE created_at >= $1`, since)
}

func (r *EntryRepository) CountOwnersSince(ctx context.Context, since time.Time) (int64, error) {
	return countQuery(ctx, r.db, `SELECT COUNT(DISTINCT user_id) FROM entries WHERE created_at >= $1`, since)
}

func (r *EntryRepository) Recent(ctx context.Context, limit int) ([]models.Entry, error) {
	return r.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
}

func (r *EntryRepository) CountByOwner(ctx context.Context) (map[uuid.UUID]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, COUNT(*) FROM entries GROUP BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]int64)
	for rows.Next() {
		var id uuid.UUID
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func countQuery(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
