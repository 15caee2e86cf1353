package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int         { return &v }
func confPtr(v float64) *float64 { return &v }

func TestMergeOverlappingPair(t *testing.T) {
	got := Merge([]Rect{
		{X: 0.10, Y: 0.10, Width: 0.20, Height: 0.20, PageNumber: intPtr(0), Confidence: confPtr(0.6)},
		{X: 0.25, Y: 0.15, Width: 0.20, Height: 0.20, PageNumber: intPtr(0), Confidence: confPtr(0.9)},
	})
	require.Len(t, got, 1)
	assert.Equal(t, 0.10, got[0].X)
	assert.Equal(t, 0.10, got[0].Y)
	assert.Equal(t, 0.35, got[0].Width)
	assert.Equal(t, 0.25, got[0].Height)
	require.NotNil(t, got[0].Confidence)
	assert.Equal(t, 0.9, *got[0].Confidence)
	require.NotNil(t, got[0].PageNumber)
	assert.Equal(t, 0, *got[0].PageNumber)
}

func TestMergeDisjointPairStaysApart(t *testing.T) {
	in := []Rect{
		{X: 0.1, Y: 0.1, Width: 0.1, Height: 0.1, PageNumber: intPtr(2)},
		{X: 0.7, Y: 0.7, Width: 0.1, Height: 0.1, PageNumber: intPtr(2)},
	}
	got := Merge(in)
	require.Len(t, got, 2)
	assert.Equal(t, in[0].X, got[0].X)
	assert.Equal(t, in[1].X, got[1].X)
}

func TestMergeTouchingEdgesCollapse(t *testing.T) {
	got := Merge([]Rect{
		{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2, PageNumber: intPtr(0)},
		{X: 0.3, Y: 0.1, Width: 0.2, Height: 0.2, PageNumber: intPtr(0)},
	})
	require.Len(t, got, 1)
	assert.Equal(t, 0.4, got[0].Width)
}

func TestMergeNeverCrossesPages(t *testing.T) {
	got := Merge([]Rect{
		{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.3, PageNumber: intPtr(0)},
		{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.3, PageNumber: intPtr(1)},
		{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.3}, // every-page rect
	})
	// Identical coordinates, three partitions, three results.
	require.Len(t, got, 3)
	assert.Nil(t, got[0].PageNumber)
	require.NotNil(t, got[1].PageNumber)
	assert.Equal(t, 0, *got[1].PageNumber)
	require.NotNil(t, got[2].PageNumber)
	assert.Equal(t, 1, *got[2].PageNumber)
}

func TestMergeAbsorbsThroughChain(t *testing.T) {
	// a touches b, b touches c, but a does not touch c. The fixed point must
	// still pull all three into one cluster.
	got := Merge([]Rect{
		{X: 0.0, Y: 0.0, Width: 0.2, Height: 0.2, PageNumber: intPtr(0)},
		{X: 0.5, Y: 0.0, Width: 0.2, Height: 0.2, PageNumber: intPtr(0), Confidence: confPtr(0.4)},
		{X: 0.15, Y: 0.0, Width: 0.4, Height: 0.2, PageNumber: intPtr(0), Confidence: confPtr(0.7)},
	})
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].X)
	assert.Equal(t, 0.7, got[0].Width)
	require.NotNil(t, got[0].Confidence)
	assert.Equal(t, 0.7, *got[0].Confidence)
}

func TestMergeConfidenceNilWhenNoMemberCarriesOne(t *testing.T) {
	got := Merge([]Rect{
		{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2, PageNumber: intPtr(0)},
		{X: 0.2, Y: 0.2, Width: 0.2, Height: 0.2, PageNumber: intPtr(0)},
	})
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Confidence)
}

func TestMergeIdempotent(t *testing.T) {
	in := []Rect{
		{X: 0.10, Y: 0.10, Width: 0.20, Height: 0.20, PageNumber: intPtr(0), Confidence: confPtr(0.6)},
		{X: 0.25, Y: 0.15, Width: 0.20, Height: 0.20, PageNumber: intPtr(0), Confidence: confPtr(0.9)},
		{X: 0.7, Y: 0.7, Width: 0.1, Height: 0.1, PageNumber: intPtr(0)},
		{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2, PageNumber: intPtr(3)},
		{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2},
	}
	once := Merge(in)
	twice := Merge(once)
	assert.Equal(t, once, twice)

	// No two results on the same page overlap or touch.
	for i := range once {
		for j := i + 1; j < len(once); j++ {
			if !samePartition(once[i].PageNumber, once[j].PageNumber) {
				continue
			}
			assert.False(t, toBounds(once[i]).touches(toBounds(once[j])),
				"results %d and %d still touch", i, j)
		}
	}
}

func TestMergeEmptyInput(t *testing.T) {
	assert.Empty(t, Merge(nil))
}

func samePartition(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
