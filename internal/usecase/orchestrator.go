package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/internal/repository"
)

// Orchestrator runs the location setup once and then every shopping item in order.
type Orchestrator interface {
	Scrape(ctx context.Context, items []string, progress ProgressReporter) ([]entity.RawListing, error)
}

type orchestrator struct {
	location  LocationInitializer
	paginator Paginator
	logger    *zap.Logger
}

func NewOrchestrator(location LocationInitializer, paginator Paginator, logger *zap.Logger) Orchestrator {
	return &orchestrator{location: location, paginator: paginator, logger: logger}
}

// Scrape returns the concatenated raw listings of all items. On error the
// listings gathered so far are returned as well.
func (o *orchestrator) Scrape(ctx context.Context, items []string, progress ProgressReporter) ([]entity.RawListing, error) {
	if len(items) == 0 {
		return nil, repository.ErrEmptyShoppingList
	}
	progress = reporterOrDiscard(progress)

	progress.Report(entity.Progress{Phase: "Setting location", Percent: entity.PercentSettingLocation})
	if err := o.location.SetLocation(ctx, items[0]); err != nil {
		return nil, err
	}
	progress.Report(entity.Progress{Phase: "Location set", Percent: entity.PercentLocationSet})
	progress.Report(entity.Progress{Phase: "Scraping", Percent: entity.PercentScraping})

	var data []entity.RawListing
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return data, err
		}
		o.logger.Info(fmt.Sprintf("Searching for '%s'", item))
		progress.Report(entity.Progress{
			Phase:   "Scraping",
			Detail:  fmt.Sprintf("Searching for '%s'", item),
			Percent: entity.PercentScraping,
		})

		listings, err := o.paginator.ScrapeItem(ctx, item, progress)
		data = append(data, listings...)
		if err != nil {
			return data, fmt.Errorf("scrape %q: %w", item, err)
		}
		o.logger.Info("item done", zap.String("item", item), zap.Int("listings", len(listings)))
	}
	return data, nil
}
