package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://www.marktguru.de/search", cfg.SearchURL)
	require.Equal(t, "10713", cfg.Zip)
	require.Equal(t, "Item", cfg.RankBy)
	require.True(t, cfg.Headless)
	require.Equal(t, 10*time.Second, cfg.HeadlineTimeout())
	require.Equal(t, 120*time.Second, cfg.ListingsTimeout())
	require.Zero(t, cfg.MaxPageRetries)
}

func TestLoadEnvFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ZIP=80331\nMARGIN_OF_ERROR=2\nRANK_BY=Name\n"), 0o644))
	t.Setenv("MAX_PAGE_RETRIES", "7")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	require.Equal(t, "80331", cfg.Zip)
	require.Equal(t, 2, cfg.MarginOfError)
	require.Equal(t, "Name", cfg.RankBy)
	require.Equal(t, 7, cfg.MaxPageRetries)
}

func TestLoadRejectsNegativeMargin(t *testing.T) {
	t.Setenv("MARGIN_OF_ERROR", "-1")
	_, err := Load("")
	require.Error(t, err)
}
