package usage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Record is one client's stored quota state. UploadCount covers the current
// day only; DemoCount accumulates for the lifetime of the address.
type Record struct {
	IP             string
	UploadCount    int
	LastUploadDate *time.Time
	DemoCount      int
}

// DB is the subset of pgxpool.Pool the repository needs. Kept narrow so tests
// can substitute a pgxmock pool.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository persists per-address usage counters
type Repository struct {
	db DB
}

// NewRepository creates a new usage repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Get loads the quota record for an address. An address never seen before
// returns a zero record, not an error.
func (r *Repository) Get(ctx context.Context, ip string) (*Record, error) {
	query := `
		SELECT ip, upload_count, last_upload_date, demo_count
		FROM usage_records
		WHERE ip = $1
	`

	rec := &Record{}
	err := r.db.QueryRow(ctx, query, ip).Scan(
		&rec.IP,
		&rec.UploadCount,
		&rec.LastUploadDate,
		&rec.DemoCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return &Record{IP: ip}, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordUpload increments the daily upload counter, resetting it when the
// stored day differs from the given one. The reset lives in the upsert so
// concurrent requests cannot double-count across a day boundary.
func (r *Repository) RecordUpload(ctx context.Context, ip string, day time.Time) error {
	query := `
		INSERT INTO usage_records (ip, upload_count, last_upload_date)
		VALUES ($1, 1, $2)
		ON CONFLICT (ip) DO UPDATE SET
			upload_count = CASE
				WHEN usage_records.last_upload_date = EXCLUDED.last_upload_date
				THEN usage_records.upload_count + 1
				ELSE 1
			END,
			last_upload_date = EXCLUDED.last_upload_date,
			updated_at = now()
	`

	_, err := r.db.Exec(ctx, query, ip, day)
	return err
}

// RecordDemo increments the lifetime demo counter.
func (r *Repository) RecordDemo(ctx context.Context, ip string) error {
	query := `
		INSERT INTO usage_records (ip, demo_count)
		VALUES ($1, 1)
		ON CONFLICT (ip) DO UPDATE SET
			demo_count = usage_records.demo_count + 1,
			updated_at = now()
	`

	_, err := r.db.Exec(ctx, query, ip)
	return err
}

// DeleteStale removes records whose last upload is older than the cutoff and
// that carry no demo history. Used by the nightly cleanup job.
func (r *Repository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM usage_records
		WHERE demo_count = 0
		  AND (last_upload_date IS NULL OR last_upload_date < $1)
	`

	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
