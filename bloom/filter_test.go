package bloom_test

import (
	"testing"

	"github.com/fwojciec/fpx/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.TestID(296328931))

	f.AddID(296328931)

	assert.True(t, f.TestID(296328931))
	assert.False(t, f.TestID(296328932))
}

func TestFilter_TestAndAddID(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.TestAndAddID(7), "first sighting")
	assert.True(t, f.TestAndAddID(7), "second sighting")
	assert.True(t, f.TestID(7))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	assert.Equal(t, uint(0), f.EstimatedCount())

	f.AddID(1)
	f.AddID(2)
	f.AddID(3)
	f.AddID(3)

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testLookups = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)
	for i := range int64(numItems) {
		f.AddID(i)
	}

	falsePositives := 0
	for i := range int64(testLookups) {
		if f.TestID(numItems + i) {
			falsePositives++
		}
	}

	rate := float64(falsePositives) / testLookups
	assert.Less(t, rate, fpRate*3, "false positive rate %.4f too high", rate)
}
