package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/repository"
)

const recordColumns = `record_id, monster_name, minutes, exp_per_minute, total_exp, total_exp_manual, saved_at, updated_at`

type recordRepository struct {
	db *pgxpool.Pool
}

// NewRecordRepository creates a new PostgreSQL saved record repository
func NewRecordRepository(db *pgxpool.Pool) repository.Records {
	return &recordRepository{db: db}
}

func (r *recordRepository) CreateRecord(ctx context.Context, rec *domain.SavedExpRecord) error {
	query := `
		INSERT INTO saved_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.MonsterName, rec.Minutes, rec.ExpPerMinute,
		rec.TotalExp, rec.TotalExpManual, rec.SavedAt, rec.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidInput, rec.ID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertRecord, err)
	}
	return nil
}

func (r *recordRepository) UpdateRecord(ctx context.Context, rec *domain.SavedExpRecord) error {
	query := `
		UPDATE saved_records
		SET monster_name = $2, minutes = $3, exp_per_minute = $4,
		    total_exp = $5, total_exp_manual = $6, updated_at = $7
		WHERE record_id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		rec.ID, rec.MonsterName, rec.Minutes, rec.ExpPerMinute,
		rec.TotalExp, rec.TotalExpManual, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateRecord, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *recordRepository) DeleteRecord(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saved_records WHERE record_id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeInvalidText {
			return domain.ErrRecordNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteRecord, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *recordRepository) GetRecord(ctx context.Context, id string) (*domain.SavedExpRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM saved_records WHERE record_id = $1`

	rec, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, pgx.ErrNoRows) || (errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeInvalidText) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRecord, err)
	}
	return rec, nil
}

func (r *recordRepository) ListRecords(ctx context.Context) ([]domain.SavedExpRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM saved_records ORDER BY saved_at DESC, record_id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRecords, err)
	}
	defer rows.Close()

	records := make([]domain.SavedExpRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRecords, err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRecords, err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (*domain.SavedExpRecord, error) {
	var rec domain.SavedExpRecord
	err := row.Scan(&rec.ID, &rec.MonsterName, &rec.Minutes, &rec.ExpPerMinute,
		&rec.TotalExp, &rec.TotalExpManual, &rec.SavedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.SavedAt = rec.SavedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return &rec, nil
}
