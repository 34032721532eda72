package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	t.Run("ignores missing file", func(t *testing.T) {
		require.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("sets variables without overriding the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("RUNDOWN_SOURCE=/from/file\nRUNDOWN_TEST_TARGET=/from/file\n"), 0644))
		t.Setenv("RUNDOWN_SOURCE", "/from/env")
		t.Cleanup(func() { os.Unsetenv("RUNDOWN_TEST_TARGET") })

		require.NoError(t, loadEnvFile(path))

		assert.Equal(t, "/from/env", os.Getenv("RUNDOWN_SOURCE"))
		assert.Equal(t, "/from/file", os.Getenv("RUNDOWN_TEST_TARGET"))
	})

	t.Run("reports malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("BAD-KEY=1\n"), 0644))

		assert.Error(t, loadEnvFile(path))
	})
}
