package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/rundown"
	"github.com/fwojciec/rundown/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceService(t *testing.T) {
	t.Parallel()

	t.Run("returns not found for unknown path", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSourceService(setupTestDB(t))

		_, err := svc.FindSource(context.Background(), "a.xml")

		require.Error(t, err)
		assert.Equal(t, rundown.ENOTFOUND, rundown.ErrorCode(err))
	})

	t.Run("records processed source", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSourceService(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, svc.MarkProcessed(ctx, "a.xml", "abc"))

		src, err := svc.FindSource(ctx, "a.xml")
		require.NoError(t, err)
		assert.Equal(t, "a.xml", src.Path)
		assert.Equal(t, "abc", src.Hash)
		assert.False(t, src.ProcessedAt.IsZero())
	})

	t.Run("replaces hash on reprocessing", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSourceService(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, svc.MarkProcessed(ctx, "a.xml", "abc"))
		require.NoError(t, svc.MarkProcessed(ctx, "a.xml", "def"))

		src, err := svc.FindSource(ctx, "a.xml")
		require.NoError(t, err)
		assert.Equal(t, "def", src.Hash)
	})
}
