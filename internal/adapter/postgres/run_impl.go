package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/deals-scraper/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          BIGSERIAL PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	zip         TEXT NOT NULL,
	rank_by     TEXT NOT NULL,
	items       TEXT[] NOT NULL,
	raw_count   INTEGER NOT NULL,
	report_path TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS report_rows (
	run_id      BIGINT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	store       TEXT NOT NULL,
	item        TEXT NOT NULL,
	name        TEXT NOT NULL,
	brand       TEXT NOT NULL,
	price       DOUBLE PRECISION NOT NULL,
	unit        TEXT NOT NULL,
	date_valid  TEXT NOT NULL,
	note        TEXT NOT NULL,
	lowest      BOOLEAN NOT NULL,
	PRIMARY KEY (run_id, position)
);`

// RunRepoImpl stores finished runs and their report rows in PostgreSQL.
type RunRepoImpl struct {
	db *pgxpool.Pool
}

func NewRunRepo(db *pgxpool.Pool) *RunRepoImpl {
	return &RunRepoImpl{db: db}
}

// EnsureSchema creates the tables when they do not exist yet.
func (r *RunRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun inserts the run and all of its rows in one transaction.
func (r *RunRepoImpl) SaveRun(ctx context.Context, run *entity.RunRecord, rows []entity.ReportRow) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO runs (started_at, finished_at, zip, rank_by, items, raw_count, report_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		run.StartedAt, run.FinishedAt, run.Zip, string(run.RankBy), run.Items, run.RawCount, run.ReportPath,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	if len(rows) > 0 {
		batch := &pgx.Batch{}
		for i, row := range rows {
			batch.Queue(`
				INSERT INTO report_rows (run_id, position, store, item, name, brand, price, unit, date_valid, note, lowest)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				id, i, row.Store, row.Item, row.Name, row.Brand, row.Price, row.Unit, row.DateValid, row.Note, row.Lowest,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("insert report rows: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	run.ID = id
	return id, nil
}

// RecentRuns returns up to limit runs, newest first.
func (r *RunRepoImpl) RecentRuns(ctx context.Context, limit int) ([]*entity.RunRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, started_at, finished_at, zip, rank_by, items, raw_count, report_path
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*entity.RunRecord
	for rows.Next() {
		var run entity.RunRecord
		var rankBy string
		if err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.Zip,
			&rankBy,
			&run.Items,
			&run.RawCount,
			&run.ReportPath,
		); err != nil {
			return nil, err
		}
		run.RankBy = entity.RankBy(rankBy)
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
