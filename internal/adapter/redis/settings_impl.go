package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/internal/repository"
)

const settingsKey = "settings"

// SettingsRepoImpl keeps the control-surface settings in one Redis hash.
type SettingsRepoImpl struct {
	client *redis.Client
}

func NewSettingsRepo(client *redis.Client) *SettingsRepoImpl {
	return &SettingsRepoImpl{client: client}
}

func (r *SettingsRepoImpl) Load(ctx context.Context) (*entity.Settings, error) {
	fields, err := r.client.HGetAll(ctx, settingsKey).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, repository.ErrNotFound
	}

	s := &entity.Settings{
		ChromePath: fields["chrome_path"],
		Zip:        fields["zip"],
		RankBy:     entity.RankBy(fields["rank_by"]),
	}
	if v := fields["margin_of_error"]; v != "" {
		moe, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("stored margin_of_error %q: %w", v, err)
		}
		s.MarginOfError = moe
	}
	return s, nil
}

func (r *SettingsRepoImpl) Save(ctx context.Context, s *entity.Settings) error {
	return r.client.HSet(ctx, settingsKey, map[string]interface{}{
		"chrome_path":     s.ChromePath,
		"zip":             s.Zip,
		"rank_by":         string(s.RankBy),
		"margin_of_error": s.MarginOfError,
	}).Err()
}
