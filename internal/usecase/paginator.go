package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/internal/repository"
	"github.com/user/deals-scraper/pkg/metrics"
)

const maxRetryBackoff = 30 * time.Second

// Paginator walks the result pages of one search item.
type Paginator interface {
	ScrapeItem(ctx context.Context, item string, progress ProgressReporter) ([]entity.RawListing, error)
}

// PaginatorConfig controls the retry policy.
type PaginatorConfig struct {
	// MarginOfError is the number of incomplete listings a page may carry
	// before it is fetched again.
	MarginOfError int
	// MaxPageRetries caps retries of a single page; 0 retries until the page is complete.
	MaxPageRetries int
	// RetryBackoff is the base delay before a retry, doubled per attempt.
	RetryBackoff time.Duration
}

type paginator struct {
	fetcher PageFetcher
	cfg     PaginatorConfig
	logger  *zap.Logger
}

func NewPaginator(fetcher PageFetcher, cfg PaginatorConfig, logger *zap.Logger) Paginator {
	return &paginator{fetcher: fetcher, cfg: cfg, logger: logger}
}

// ScrapeItem fetches pages 0, 1, ... until the site reports the last page.
// Listings of pages fetched before a terminal error are returned alongside it.
func (p *paginator) ScrapeItem(ctx context.Context, item string, progress ProgressReporter) ([]entity.RawListing, error) {
	progress = reporterOrDiscard(progress)
	var results []entity.RawListing
	page, retries := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		progress.Report(entity.Progress{
			Phase:     "Scraping",
			Detail:    fmt.Sprintf("Searching for '%s'", item),
			Secondary: fmt.Sprintf("Page %d", page+1),
			Percent:   entity.PercentScraping,
		})

		listings, err := p.fetcher.FetchPage(ctx, item, page)
		switch {
		case errors.Is(err, repository.ErrPageMismatch):
			metrics.PagesFetched.WithLabelValues("last_page").Inc()
			p.logger.Info("reached the last page", zap.String("item", item), zap.Int("page", page))
			return results, nil
		case errors.Is(err, repository.ErrBrowserGone):
			metrics.PagesFetched.WithLabelValues("error").Inc()
			return results, err
		case err != nil:
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			metrics.PagesFetched.WithLabelValues("error").Inc()
			p.logger.Error("page failed, moving on",
				zap.String("item", item), zap.Int("page", page), zap.Error(err))
			page, retries = page+1, 0
			continue
		}

		empty := 0
		for _, l := range listings {
			if l.Incomplete() {
				empty++
			}
		}
		if empty > p.cfg.MarginOfError {
			retries++
			metrics.PagesFetched.WithLabelValues("retry").Inc()
			if p.cfg.MaxPageRetries > 0 && retries > p.cfg.MaxPageRetries {
				// Complete listings of the page still count; the report drops the rest.
				p.logger.Warn("giving up on incomplete page",
					zap.String("item", item), zap.Int("page", page), zap.Int("empty", empty))
				results = p.accept(results, listings)
				page, retries = page+1, 0
				continue
			}
			p.logger.Info(fmt.Sprintf("Got more than %d empty result(s). Retrying...", p.cfg.MarginOfError),
				zap.String("item", item), zap.Int("page", page), zap.Int("attempt", retries))
			if err := sleepContext(ctx, backoff(p.cfg.RetryBackoff, retries)); err != nil {
				return results, err
			}
			continue
		}

		metrics.PagesFetched.WithLabelValues("ok").Inc()
		results = p.accept(results, listings)
		page, retries = page+1, 0
	}
}

func (p *paginator) accept(results, listings []entity.RawListing) []entity.RawListing {
	metrics.ListingsExtracted.Add(float64(len(listings)))
	return append(results, listings...)
}

// backoff doubles base for every attempt after the first, capped at maxRetryBackoff.
func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt < 1 {
		return 0
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= maxRetryBackoff {
			return maxRetryBackoff
		}
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
