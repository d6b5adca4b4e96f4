package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ShouldReturnZeroValue_WhenPathIsEmpty(t *testing.T) {
	f, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, File{}, f)
}

func TestLoad_ShouldReturnZeroValue_WhenPathDoesNotExist(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, File{}, f)
}

func TestLoad_ShouldParseYAMLFields_WhenFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statecheck.yaml")
	contents := "num_tests: 100\nmax_length: 30\nthreads: 4\nseed: 7\nlog_level: debug\nseed_store: postgres\npostgres_dsn: postgres://localhost/test\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, f.NumTests)
	assert.Equal(t, 30, f.MaxLength)
	assert.Equal(t, 4, f.Threads)
	assert.Equal(t, int64(7), f.Seed)
	assert.Equal(t, "debug", f.LogLevel)
	assert.Equal(t, "postgres", f.SeedStore)
	assert.Equal(t, "postgres://localhost/test", f.PostgresDSN)
}

func TestLoad_ShouldOverrideFileValues_WithEnvironmentVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_tests: 10\n"), 0o600))

	t.Setenv("STATECHECK_NUM_TESTS", "999")
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 999, f.NumTests)
}

func TestLoad_ShouldIgnoreUnparsableEnvInt_AndKeepFallback(t *testing.T) {
	t.Setenv("STATECHECK_THREADS", "not-a-number")
	f, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, f.Threads)
}
