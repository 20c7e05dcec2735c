package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const listKeyPrefix = "lists:"

// ListRepoImpl stores the plain-text lists as Redis strings.
type ListRepoImpl struct {
	client *redis.Client
}

func NewListRepo(client *redis.Client) *ListRepoImpl {
	return &ListRepoImpl{client: client}
}

func (r *ListRepoImpl) key(name string) string {
	return fmt.Sprintf("%s%s", listKeyPrefix, name)
}

// Load returns "" for a list that was never saved.
func (r *ListRepoImpl) Load(ctx context.Context, name string) (string, error) {
	text, err := r.client.Get(ctx, r.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return text, err
}

func (r *ListRepoImpl) Save(ctx context.Context, name, text string) error {
	return r.client.Set(ctx, r.key(name), text, 0).Err()
}
