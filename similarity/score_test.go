package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_SelfSimilarity(t *testing.T) {
	const n = 6
	grid := newTestGrid(t, n, 3, 14, func(r, c int) []float64 {
		a := float64(r*n+c) * 0.37
		return []float64{math.Cos(a), math.Sin(a), 0.2 * float64(r-c)}
	})

	for _, pos := range [][2]int{{0, 0}, {2, 3}, {5, 5}} {
		r, c := pos[0], pos[1]
		ref, err := ReferenceVector(grid, PatchRange{RowMin: r, RowMax: r + 1, ColMin: c, ColMax: c + 1})
		require.NoError(t, err)

		sim, err := Score(grid, ref)
		require.NoError(t, err)

		self := sim.At(r, c)
		assert.InDelta(t, 1.0, self, 1e-6)
		for i, v := range sim.Values {
			assert.LessOrEqual(t, v, self+1e-12, "index %d", i)
			assert.GreaterOrEqual(t, v, -1-1e-9)
		}
	}
}

func TestScore_MagnitudeInvariant(t *testing.T) {
	grid := newTestGrid(t, 2, 2, 14, func(r, c int) []float64 {
		s := float64(1 + r*10 + c*100)
		return []float64{s, s}
	})
	sim, err := Score(grid, []float64{3, 3})
	require.NoError(t, err)
	for _, v := range sim.Values {
		assert.InDelta(t, 1.0, v, 1e-6)
	}

	sim, err = Score(grid, []float64{-1, -1})
	require.NoError(t, err)
	for _, v := range sim.Values {
		assert.InDelta(t, -1.0, v, 1e-6)
	}
}

func TestScore_ZeroEmbedding(t *testing.T) {
	grid := newTestGrid(t, 2, 3, 14, func(r, c int) []float64 {
		if r == 0 && c == 0 {
			return []float64{0, 0, 0}
		}
		return []float64{1, 0, 0}
	})

	sim, err := Score(grid, []float64{1, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim.At(0, 0))
	assert.InDelta(t, 1.0, sim.At(1, 1), 1e-6)

	sim, err = Score(grid, []float64{0, 0, 0})
	require.NoError(t, err)
	for _, v := range sim.Values {
		assert.False(t, math.IsNaN(v))
		assert.Equal(t, 0.0, v)
	}
}

func TestScore_DimensionMismatch(t *testing.T) {
	grid := newTestGrid(t, 2, 3, 14, func(r, c int) []float64 { return []float64{1, 2, 3} })
	_, err := Score(grid, []float64{1, 2})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestScore_Deterministic(t *testing.T) {
	pr := PatchRange{RowMin: 2, RowMax: 5, ColMin: 1, ColMax: 4}
	grid := blockGrid(t, 8, 14, pr)
	ref, err := ReferenceVector(grid, pr)
	require.NoError(t, err)

	a, err := Score(grid, ref)
	require.NoError(t, err)
	b, err := Score(grid, ref)
	require.NoError(t, err)
	assert.Equal(t, a.Values, b.Values)
}
