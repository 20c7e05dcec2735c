package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/internal/extractor"
	"github.com/user/deals-scraper/internal/repository"
	"github.com/user/deals-scraper/pkg/utils"
)

const (
	headlineSelector = ".headline"
	locationSelector = ".location-text"
	listingSelector  = "li"
)

// PageFetcher loads one results page and extracts its listings.
type PageFetcher interface {
	// FetchPage returns repository.ErrPageMismatch once the site stopped
	// showing results for item, which marks the end of pagination.
	FetchPage(ctx context.Context, item string, page int) ([]entity.RawListing, error)
}

// FetcherConfig controls page loading.
type FetcherConfig struct {
	BaseURL         string
	Zip             string
	HeadlineTimeout time.Duration
	ListingsTimeout time.Duration
}

type pageFetcher struct {
	browser repository.Browser
	cfg     FetcherConfig
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewPageFetcher creates a fetcher bound to one browser session. limiter may be nil.
func NewPageFetcher(browser repository.Browser, cfg FetcherConfig, limiter *rate.Limiter, logger *zap.Logger) PageFetcher {
	return &pageFetcher{browser: browser, cfg: cfg, limiter: limiter, logger: logger}
}

func (f *pageFetcher) FetchPage(ctx context.Context, item string, page int) ([]entity.RawListing, error) {
	listings, err := f.fetch(ctx, item, page)
	if err == nil || errors.Is(err, repository.ErrPageMismatch) || errors.Is(err, repository.ErrBrowserGone) {
		return listings, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if aliveErr := f.browser.Alive(ctx); errors.Is(aliveErr, repository.ErrBrowserGone) {
		return nil, fmt.Errorf("%w: %w", repository.ErrBrowserGone, err)
	}
	return nil, err
}

func (f *pageFetcher) fetch(ctx context.Context, item string, page int) ([]entity.RawListing, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	url := utils.SearchPageURL(f.cfg.BaseURL, item, page)
	if err := f.browser.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", url, err)
	}

	if err := f.browser.WaitVisible(ctx, headlineSelector, f.cfg.HeadlineTimeout); err != nil {
		return nil, err
	}
	headline, err := f.browser.Text(ctx, headlineSelector)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(strings.ToLower(headline), strings.ToLower(item)) {
		return nil, fmt.Errorf("%w: %q on page %d", repository.ErrPageMismatch, headline, page)
	}

	if err := f.browser.WaitVisible(ctx, listingSelector, f.cfg.ListingsTimeout); err != nil {
		return nil, err
	}

	location, err := f.browser.Text(ctx, locationSelector)
	if err != nil || !strings.Contains(location, f.cfg.Zip) {
		f.logger.Warn("location error",
			zap.String("item", item),
			zap.String("zip", f.cfg.Zip),
			zap.String("location_text", location),
		)
	}

	fragments, err := f.browser.OuterHTMLAll(ctx, listingSelector)
	if err != nil {
		return nil, err
	}
	return extractor.ExtractAll(fragments, item), nil
}
