package repository

import (
	"context"

	"github.com/user/deals-scraper/internal/entity"
)

// ListRepository persists the plain-text shopping list and blacklist.
type ListRepository interface {
	// Load returns the stored text for name, or "" when nothing was stored yet.
	Load(ctx context.Context, name string) (string, error)
	// Save replaces the stored text for name.
	Save(ctx context.Context, name, text string) error
}

// SettingsRepository persists control-surface preferences.
type SettingsRepository interface {
	// Load returns ErrNotFound when no settings were saved yet.
	Load(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, s *entity.Settings) error
}
