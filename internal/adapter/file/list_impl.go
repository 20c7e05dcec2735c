package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/user/deals-scraper/internal/entity"
)

// ListRepoImpl keeps each list in <dir>/<name>.txt.
type ListRepoImpl struct {
	dir string
}

func NewListRepo(dir string) *ListRepoImpl {
	return &ListRepoImpl{dir: dir}
}

func (r *ListRepoImpl) path(name string) (string, error) {
	if !entity.ValidListName(name) {
		return "", fmt.Errorf("unknown list %q", name)
	}
	return filepath.Join(r.dir, name+".txt"), nil
}

// Load returns the file content. A missing file is created empty.
func (r *ListRepoImpl) Load(ctx context.Context, name string) (string, error) {
	p, err := r.path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", r.Save(ctx, name, "")
	}
	if err != nil {
		return "", fmt.Errorf("read list %s: %w", name, err)
	}
	return string(data), nil
}

func (r *ListRepoImpl) Save(ctx context.Context, name, text string) error {
	p, err := r.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create list dir: %w", err)
	}
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write list %s: %w", name, err)
	}
	return nil
}
