package repository

import (
	"context"

	"github.com/user/deals-scraper/internal/entity"
)

// RunRepository stores finished runs together with their report rows.
type RunRepository interface {
	SaveRun(ctx context.Context, run *entity.RunRecord, rows []entity.ReportRow) (int64, error)
	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]*entity.RunRecord, error)
}

// ReportWriter renders a report to a file and returns its path.
type ReportWriter interface {
	Write(report *entity.Report) (string, error)
}
