package report_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/theiagen/nf-theia/pkg/report"
)

func TestCorrelator_RecordAndLookup(t *testing.T) {
	c := report.NewCorrelator()

	assert.False(t, c.IsPublished("/work/ab/a.txt"))
	assert.Empty(t, c.Destinations("/work/ab/a.txt"))

	c.Record("/work/ab/a.txt", "/out/run/a.txt")
	assert.True(t, c.IsPublished("/work/ab/a.txt"))
	assert.Equal(t, []string{"/out/run/a.txt"}, c.Destinations("/work/ab/a.txt"))

	// one source may publish to several destinations
	c.Record("/work/ab/a.txt", "s3://bucket/run/a.txt")
	assert.Equal(t,
		[]string{"/out/run/a.txt", "s3://bucket/run/a.txt"},
		c.Destinations("/work/ab/a.txt"))
}

func TestCorrelator_RecordIsIdempotent(t *testing.T) {
	c := report.NewCorrelator()
	c.Record("/work/ab/a.txt", "/out/run/a.txt")
	c.Record("/work/ab/a.txt", "/out/run/a.txt")
	assert.Len(t, c.Destinations("/work/ab/a.txt"), 1)
}

func TestCorrelator_KeysAreNormalized(t *testing.T) {
	c := report.NewCorrelator()
	c.Record("/work/ab/xx/../a.txt", "/out/run/a.txt")

	// a different spelling of the same path must match
	assert.True(t, c.IsPublished("/work/ab/./a.txt"))
	assert.Equal(t, []string{"/out/run/a.txt"}, c.Destinations("/work/ab/a.txt"))
}

func TestCorrelator_StrippedDestinationIsReconstructed(t *testing.T) {
	c := report.NewCorrelator()
	c.Record("/work/ab/out.txt", "38627.myaccount/results/out.txt")
	assert.Equal(t,
		[]string{"platform://38627.myaccount/results/out.txt"},
		c.Destinations("/work/ab/out.txt"))
}

func TestCorrelator_AllPublished(t *testing.T) {
	c := report.NewCorrelator()
	c.Record("/work/a.txt", "/out/a.txt")

	assert.True(t, c.AllPublished([]string{"/work/a.txt"}))
	assert.False(t, c.AllPublished([]string{"/work/a.txt", "/work/b.txt"}))
}

func TestCorrelator_ConcurrentRecords(t *testing.T) {
	c := report.NewCorrelator()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := fmt.Sprintf("/work/%d/a.txt", i%10)
			c.Record(src, fmt.Sprintf("/out/%d/a.txt", i))
			c.IsPublished(src)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, c.Size())
	for i := 0; i < 10; i++ {
		assert.Len(t, c.Destinations(fmt.Sprintf("/work/%d/a.txt", i)), 5)
	}
}
