package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/rundown"
	"github.com/fwojciec/rundown/bloom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Key not yet added should return false
	assert.False(t, f.Test("RD_08-09_Plus20230111"))

	// Add key
	f.Add("RD_08-09_Plus20230111")

	// Now it should return true
	assert.True(t, f.Test("RD_08-09_Plus20230111"))

	// Different key should still return false
	assert.False(t, f.Test("RD_08-09_Plus20230112"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Empty filter should have count near 0
	assert.Equal(t, uint(0), f.EstimatedCount())

	// Add some keys
	f.Add("RD_08-09_Plus20230111")
	f.Add("RD_08-09_Plus20230112")
	f.Add("RD_08-09_Plus20230113")

	// Estimated count should be approximately 3
	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	key := "RD_08-09_Plus20230111"

	f.Add(key)
	countAfterFirst := f.EstimatedCount()

	// Adding the same key multiple times should not change the filter
	f.Add(key)
	f.Add(key)
	f.Add(key)

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.True(t, f.Test(key))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	// Add 10k keys
	for i := range numItems {
		f.Add(fmt.Sprintf("added/%d", i))
	}

	// Test with 10k keys that were NOT added
	falsePositives := 0
	for i := range testProbes {
		key := fmt.Sprintf("notadded/%d", i)
		if f.Test(key) {
			falsePositives++
		}
	}

	// False positive rate should be approximately 1%
	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}

func record(source, title string) *rundown.Record {
	rec := rundown.NewRecord(source)
	rec.Set(rundown.ColStation, "11")
	rec.Set(rundown.ColTitle3, title)
	return rec
}

func TestDeduper_Duplicate(t *testing.T) {
	t.Parallel()

	t.Run("reports repeated values across sources", func(t *testing.T) {
		t.Parallel()

		d := bloom.NewDeduper(100, rundown.AllColumns())

		assert.False(t, d.Duplicate(record("a.xml", "Zprávy")))
		assert.True(t, d.Duplicate(record("b.xml", "Zprávy")))
		assert.False(t, d.Duplicate(record("a.xml", "Počasí")))
		assert.Equal(t, 2, d.Len())
	})

	t.Run("distinguishes absent from empty", func(t *testing.T) {
		t.Parallel()

		d := bloom.NewDeduper(100, rundown.AllColumns())
		withEmpty := record("a.xml", "Zprávy")
		withEmpty.Set(rundown.ColCategory, "")

		assert.False(t, d.Duplicate(record("a.xml", "Zprávy")))
		assert.False(t, d.Duplicate(withEmpty))
	})

	t.Run("compares only configured columns", func(t *testing.T) {
		t.Parallel()

		d := bloom.NewDeduper(100, []rundown.Column{rundown.ColStation})

		assert.False(t, d.Duplicate(record("a.xml", "one")))
		assert.True(t, d.Duplicate(record("a.xml", "two")))
	})

	t.Run("is exact beyond the filter capacity", func(t *testing.T) {
		t.Parallel()

		d := bloom.NewDeduper(10, rundown.AllColumns())

		for i := range 1000 {
			require.False(t, d.Duplicate(record("a.xml", fmt.Sprint(i))), "record %d", i)
		}
		assert.Equal(t, 1000, d.Len())
	})
}

func TestDeduper_Forget(t *testing.T) {
	t.Parallel()

	d := bloom.NewDeduper(100, rundown.AllColumns())
	require.False(t, d.Duplicate(record("a.xml", "Zprávy")))

	d.Forget(record("a.xml", "Zprávy"))

	assert.Zero(t, d.Len())
	assert.False(t, d.Duplicate(record("b.xml", "Zprávy")))
	assert.True(t, d.Duplicate(record("c.xml", "Zprávy")))
}
