package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/internal/report"
	"github.com/user/deals-scraper/internal/repository"
	"github.com/user/deals-scraper/pkg/metrics"
	"github.com/user/deals-scraper/pkg/utils"
)

// User-visible status messages.
const (
	MsgDone             = "Done"
	MsgStopped          = "Stopped"
	MsgEmptyList        = "Shopping list is empty"
	MsgChromeFound      = "Chrome executable found"
	MsgChromeNotFound   = "Chrome executable not found"
	MsgLocationFailed   = "The page didn't load right. Please restart."
	MsgBrowserClosed    = "The browser closed before scraping finished."
	MsgInvalidSearchURL = "Search URL must be an absolute http(s) address"
	MsgNegativeMargin   = "Margin of error must not be negative"
)

// Runner executes a complete scrape from a control-surface request.
type Runner interface {
	Run(ctx context.Context, req *entity.RunRequest, progress ProgressReporter) *entity.RunResult
	CheckChrome(path string) *entity.RunResult
}

// RunnerConfig holds the pipeline tuning that is not part of a request.
type RunnerConfig struct {
	MaxPageRetries   int
	RetryBackoff     time.Duration
	PageRateLimit    float64 // navigations per second, 0 = unlimited
	HeadlineTimeout  time.Duration
	ListingsTimeout  time.Duration
	LocationLoadWait time.Duration
	LocationSettle   time.Duration
}

type runner struct {
	launcher repository.BrowserLauncher
	writer   repository.ReportWriter
	lists    repository.ListRepository
	runs     repository.RunRepository
	cfg      RunnerConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewRunner wires the run use case. lists and runs may be nil to skip persistence.
func NewRunner(
	launcher repository.BrowserLauncher,
	writer repository.ReportWriter,
	lists repository.ListRepository,
	runs repository.RunRepository,
	cfg RunnerConfig,
	logger *zap.Logger,
) Runner {
	return &runner{
		launcher: launcher,
		writer:   writer,
		lists:    lists,
		runs:     runs,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *runner) CheckChrome(path string) *entity.RunResult {
	if _, err := r.launcher.Locate(path); err != nil {
		return &entity.RunResult{Status: MsgChromeNotFound, Level: entity.LevelDanger}
	}
	return &entity.RunResult{Status: MsgChromeFound, Level: entity.LevelSuccess}
}

func (r *runner) Run(ctx context.Context, req *entity.RunRequest, progress ProgressReporter) *entity.RunResult {
	started := r.now()
	result := r.run(ctx, req, reporterOrDiscard(progress), started)

	metrics.RunsTotal.WithLabelValues(result.Level).Inc()
	metrics.RunDuration.Observe(r.now().Sub(started).Seconds())
	r.logger.Info("run finished",
		zap.String("status", result.Status),
		zap.String("level", result.Level),
		zap.Int("rows", result.Rows),
		zap.Duration("took", r.now().Sub(started)),
	)
	return result
}

func (r *runner) run(ctx context.Context, req *entity.RunRequest, progress ProgressReporter, started time.Time) *entity.RunResult {
	if !utils.ValidBaseURL(req.SearchURL) {
		return failure(MsgInvalidSearchURL)
	}
	if req.MarginOfError < 0 {
		return failure(MsgNegativeMargin)
	}

	execPath, err := r.launcher.Locate(req.ChromePath)
	if err != nil {
		r.logger.Warn("chrome not found", zap.String("path", req.ChromePath), zap.Error(err))
		return failure(MsgChromeNotFound)
	}

	r.saveLists(ctx, req)

	items := utils.ReadList(req.ShoppingListText)
	if len(items) == 0 {
		return failure(MsgEmptyList)
	}
	blacklist := utils.ReadList(req.BlacklistText)

	data, err := r.scrape(ctx, req, execPath, items, progress)
	if err != nil {
		return r.classify(ctx, err)
	}
	progress.Report(entity.Progress{Phase: "Done scraping", Percent: entity.PercentDoneScraping})

	progress.Report(entity.Progress{Phase: "Processing data", Percent: entity.PercentProcessing})
	rankBy := req.RankBy
	if !rankBy.Valid() {
		rankBy = entity.RankByItem
	}
	rep := report.Build(data, blacklist, rankBy)
	path, err := r.writer.Write(rep)
	if err != nil {
		r.logger.Error("writing report failed", zap.Error(err))
		return failure(fmt.Sprintf("Could not write the report: %v", err))
	}
	metrics.ReportRows.Set(float64(len(rep.Rows)))
	progress.Report(entity.Progress{Phase: "Done", Percent: entity.PercentDone})

	r.saveRun(ctx, &entity.RunRecord{
		StartedAt:  started,
		FinishedAt: r.now(),
		Zip:        req.Zip,
		RankBy:     rankBy,
		Items:      items,
		RawCount:   len(data),
		ReportPath: path,
	}, rep.Rows)

	return &entity.RunResult{
		Status:     MsgDone,
		Level:      entity.LevelSuccess,
		ReportPath: path,
		Rows:       len(rep.Rows),
		Report:     rep,
	}
}

// scrape owns the browser session; it is closed before the result is processed.
func (r *runner) scrape(ctx context.Context, req *entity.RunRequest, execPath string, items []string, progress ProgressReporter) ([]entity.RawListing, error) {
	browser, err := r.launcher.Launch(ctx, execPath)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			r.logger.Warn("closing browser failed", zap.Error(err))
		}
	}()

	var limiter *rate.Limiter
	if r.cfg.PageRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.PageRateLimit), 1)
	}

	fetcher := NewPageFetcher(browser, FetcherConfig{
		BaseURL:         req.SearchURL,
		Zip:             req.Zip,
		HeadlineTimeout: r.cfg.HeadlineTimeout,
		ListingsTimeout: r.cfg.ListingsTimeout,
	}, limiter, r.logger)
	paginator := NewPaginator(fetcher, PaginatorConfig{
		MarginOfError:  req.MarginOfError,
		MaxPageRetries: r.cfg.MaxPageRetries,
		RetryBackoff:   r.cfg.RetryBackoff,
	}, r.logger)
	location := NewLocationInitializer(browser, LocationConfig{
		BaseURL:  req.SearchURL,
		Zip:      req.Zip,
		LoadWait: r.cfg.LocationLoadWait,
		Settle:   r.cfg.LocationSettle,
	}, r.logger)

	return NewOrchestrator(location, paginator, r.logger).Scrape(ctx, items, progress)
}

// classify maps a scrape error to a user-visible result. A cancelled run is
// reported as stopped whatever error the interrupted step produced.
func (r *runner) classify(ctx context.Context, err error) *entity.RunResult {
	if ctx.Err() != nil {
		r.logger.Info("run stopped", zap.NamedError("cause", err))
		return &entity.RunResult{Status: MsgStopped, Level: entity.LevelWarning}
	}
	switch {
	case errors.Is(err, repository.ErrEmptyShoppingList):
		return failure(MsgEmptyList)
	case errors.Is(err, repository.ErrLocationSetup):
		return failure(MsgLocationFailed)
	case errors.Is(err, context.Canceled):
		r.logger.Info("run stopped")
		return &entity.RunResult{Status: MsgStopped, Level: entity.LevelWarning}
	case errors.Is(err, repository.ErrBrowserGone):
		r.logger.Warn("browser went away", zap.Error(err))
		return &entity.RunResult{Status: MsgBrowserClosed, Level: entity.LevelWarning}
	default:
		r.logger.Error("run failed", zap.Error(err))
		return failure(err.Error())
	}
}

func (r *runner) saveLists(ctx context.Context, req *entity.RunRequest) {
	if r.lists == nil {
		return
	}
	for name, text := range map[string]string{
		entity.ShoppingList:  req.ShoppingListText,
		entity.ItemBlacklist: req.BlacklistText,
	} {
		if err := r.lists.Save(ctx, name, text); err != nil {
			r.logger.Warn("saving list failed", zap.String("list", name), zap.Error(err))
		}
	}
}

func (r *runner) saveRun(ctx context.Context, run *entity.RunRecord, rows []entity.ReportRow) {
	if r.runs == nil {
		return
	}
	id, err := r.runs.SaveRun(ctx, run, rows)
	if err != nil {
		r.logger.Warn("saving run failed", zap.Error(err))
		return
	}
	r.logger.Info("run stored", zap.Int64("run_id", id))
}

func failure(msg string) *entity.RunResult {
	return &entity.RunResult{Status: msg, Level: entity.LevelDanger}
}
