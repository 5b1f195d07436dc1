package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anushST/landset-nasa/internal/domain"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so the
// same queries run pooled or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AcquisitionRepository is the durable acquisition store: the
// append-only acquisition log plus the per-satellite crawl watermarks.
type AcquisitionRepository struct {
	db     DBTX
	runner *TxRunner
}

// NewAcquisitionRepository creates a pool-backed repository.
func NewAcquisitionRepository(pool *pgxpool.Pool) *AcquisitionRepository {
	return &AcquisitionRepository{db: pool, runner: NewTxRunner(pool)}
}

// NewAcquisitionRepositoryWithTx creates a repository scoped to an
// open transaction. AppendAcquisitions must not be called on it.
func NewAcquisitionRepositoryWithTx(tx pgx.Tx) *AcquisitionRepository {
	return &AcquisitionRepository{db: tx}
}

// AppendAcquisitions inserts all records from one crawl fetch and the
// watermark for that satellite/date as a single transaction, so a
// crash can never leave rows without the matching watermark or the
// other way round. Duplicate rows from overlapping crawl windows are
// absorbed by the unique index.
func (r *AcquisitionRepository) AppendAcquisitions(ctx context.Context, satellite string, day time.Time, records []domain.PlannedAcquisition) error {
	if r.runner == nil {
		return domain.NewStoreError("append acquisitions", pgx.ErrTxClosed)
	}

	err := r.runner.WithTx(ctx, func(tx pgx.Tx) error {
		scoped := NewAcquisitionRepositoryWithTx(tx)
		if err := scoped.insertAcquisitions(ctx, records); err != nil {
			return err
		}
		return scoped.insertWatermark(ctx, satellite, day)
	})
	if err != nil {
		return domain.NewStoreError("append acquisitions", err)
	}
	return nil
}

func (r *AcquisitionRepository) insertAcquisitions(ctx context.Context, records []domain.PlannedAcquisition) error {
	for _, rec := range records {
		_, err := r.db.Exec(ctx,
			`INSERT INTO satellite_acquisitions (satellite, path, "row", acquired_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (satellite, path, "row", acquired_at) DO NOTHING`,
			rec.Satellite,
			rec.Path,
			rec.Row,
			rec.BeginTime,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *AcquisitionRepository) insertWatermark(ctx context.Context, satellite string, day time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO crawl_watermarks (satellite, has_info_date)
		 VALUES ($1, $2)`,
		satellite,
		day,
	)
	return err
}

// LatestWatermark returns the most recent crawl date recorded for a
// satellite, or nil when the satellite has never been crawled.
func (r *AcquisitionRepository) LatestWatermark(ctx context.Context, satellite string) (*time.Time, error) {
	var latest *time.Time
	err := r.db.QueryRow(ctx,
		`SELECT MAX(has_info_date) FROM crawl_watermarks WHERE satellite = $1`,
		satellite,
	).Scan(&latest)
	if err != nil {
		return nil, domain.NewStoreError("read watermark", err)
	}
	return latest, nil
}

// QueryPlan returns the acquisitions for a satellite set on one WRS
// cell strictly after the given instant.
func (r *AcquisitionRepository) QueryPlan(ctx context.Context, satellites []string, path, row string, after time.Time) ([]domain.Acquisition, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, satellite, path, "row", acquired_at
		 FROM satellite_acquisitions
		 WHERE satellite = ANY($1) AND path = $2 AND "row" = $3 AND acquired_at > $4
		 ORDER BY acquired_at`,
		satellites,
		path,
		row,
		after,
	)
	if err != nil {
		return nil, domain.NewStoreError("query acquisition plan", err)
	}
	defer rows.Close()

	return scanAcquisitions(rows)
}

// QueryByDay returns every acquisition whose timestamp falls on the
// given UTC calendar day.
func (r *AcquisitionRepository) QueryByDay(ctx context.Context, day time.Time) ([]domain.Acquisition, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	rows, err := r.db.Query(ctx,
		`SELECT id, satellite, path, "row", acquired_at
		 FROM satellite_acquisitions
		 WHERE acquired_at >= $1 AND acquired_at < $2
		 ORDER BY acquired_at`,
		start,
		end,
	)
	if err != nil {
		return nil, domain.NewStoreError("query acquisitions by day", err)
	}
	defer rows.Close()

	return scanAcquisitions(rows)
}

func scanAcquisitions(rows pgx.Rows) ([]domain.Acquisition, error) {
	var acquisitions []domain.Acquisition
	for rows.Next() {
		var a domain.Acquisition
		if err := rows.Scan(&a.ID, &a.Satellite, &a.Path, &a.Row, &a.AcquiredAt); err != nil {
			return nil, domain.NewStoreError("scan acquisition row", err)
		}
		acquisitions = append(acquisitions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("iterate acquisition rows", err)
	}
	return acquisitions, nil
}
