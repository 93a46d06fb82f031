package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "worker", "seed", "migrate"} {
		assert.True(t, names[want], want)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(t.TempDir(), "seed.db"))
	t.Setenv("APP_ENV", "test")

	out, err := run(t, "seed", "--skip-index")
	require.NoError(t, err)
	assert.Contains(t, out, "products: 10 created, 0 already present; collections: 4 written")

	out, err = run(t, "seed", "--skip-index")
	require.NoError(t, err)
	assert.Contains(t, out, "products: 0 created, 10 already present")
}

func TestMigrate(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(t.TempDir(), "migrate.db"))
	t.Setenv("APP_ENV", "test")

	_, err := run(t, "migrate")
	assert.NoError(t, err)
}

func TestServeAndWorkerRequireSettings(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("APP_ENV", "test")

	_, err := run(t, "serve")
	assert.ErrorContains(t, err, "JWT_SECRET is required")

	_, err = run(t, "worker")
	assert.ErrorContains(t, err, "RABBITMQ_URL is required")
}
