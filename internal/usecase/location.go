package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/repository"
	"github.com/user/deals-scraper/pkg/utils"
)

const (
	consentSelector       = "#usercentrics-root"
	locationOpenSelector  = ".location-default-text"
	locationInputSelector = "input"
	locationInputIndex    = 1
)

// LocationInitializer sets the delivery location once per session so
// that later result pages are regional.
type LocationInitializer interface {
	SetLocation(ctx context.Context, seedItem string) error
}

// LocationConfig controls the location flow.
type LocationConfig struct {
	BaseURL string
	Zip     string
	// LoadWait bounds the wait for the seed page scaffold.
	LoadWait time.Duration
	// Settle is the pause after each interaction.
	Settle time.Duration
}

type locationInitializer struct {
	browser repository.Browser
	cfg     LocationConfig
	logger  *zap.Logger
}

func NewLocationInitializer(browser repository.Browser, cfg LocationConfig, logger *zap.Logger) LocationInitializer {
	return &locationInitializer{browser: browser, cfg: cfg, logger: logger}
}

// SetLocation enters the ZIP in the site's location dialog and picks the first suggestion.
// Every failure is reported as repository.ErrLocationSetup.
func (l *locationInitializer) SetLocation(ctx context.Context, seedItem string) error {
	if err := l.setLocation(ctx, seedItem); err != nil {
		l.logger.Error("setting location failed", zap.String("zip", l.cfg.Zip), zap.Error(err))
		return fmt.Errorf("%w: %w", repository.ErrLocationSetup, err)
	}
	l.logger.Info("location set", zap.String("zip", l.cfg.Zip))
	return nil
}

func (l *locationInitializer) setLocation(ctx context.Context, seedItem string) error {
	b := l.browser
	if err := b.Navigate(ctx, utils.SearchPageURL(l.cfg.BaseURL, seedItem, 0)); err != nil {
		return err
	}
	if err := b.WaitVisible(ctx, locationOpenSelector, l.cfg.LoadWait); err != nil {
		return err
	}

	// The consent overlay blocks clicks when present.
	consent, err := b.Exists(ctx, consentSelector)
	if err != nil {
		return err
	}
	if consent {
		if err := b.Remove(ctx, consentSelector); err != nil {
			return err
		}
	}

	steps := []func() error{
		func() error { return b.Click(ctx, locationOpenSelector) },
		func() error {
			if err := b.FocusNth(ctx, locationInputSelector, locationInputIndex); err != nil {
				return err
			}
			return b.TypeKeys(ctx, l.cfg.Zip+kb.Enter)
		},
		func() error { return b.TypeKeys(ctx, kb.ArrowDown) },
		func() error { return b.TypeKeys(ctx, kb.Enter) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
		if err := sleepContext(ctx, l.cfg.Settle); err != nil {
			return err
		}
	}
	return nil
}
