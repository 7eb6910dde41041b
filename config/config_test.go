package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		viper.Reset()
		os.Chdir(old)
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "datasets_E.json", cfg.DatasetsFile)
	assert.Equal(t, 10000, cfg.BatchSize)
	assert.Equal(t, 10, cfg.ProgressEvery)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "data_dir: /data/faostat\nbatch_size: 5000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/faostat", cfg.DataDir)
	assert.Equal(t, 5000, cfg.BatchSize)
	assert.Equal(t, 10, cfg.ProgressEvery, "unset keys keep their defaults")
}

func TestLoadRejectsBadBatchSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("batch_size: -1\n"), 0644))
	chdir(t, dir)

	_, err := Load()
	assert.Error(t, err)
}
