package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceVector(t *testing.T) {
	grid := newTestGrid(t, 4, 2, 14, func(r, c int) []float64 {
		return []float64{float64(r), float64(c)}
	})

	ref, err := ReferenceVector(grid, PatchRange{RowMin: 1, RowMax: 3, ColMin: 0, ColMax: 4})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 1.5}, ref, 1e-12)

	ref, err = ReferenceVector(grid, PatchRange{RowMin: 2, RowMax: 3, ColMin: 3, ColMax: 4})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 3}, ref, 1e-12)

	// 网格数据不能被修改
	assert.Equal(t, []float64{2, 3}, grid.Patch(2, 3))
}

func TestReferenceVector_Errors(t *testing.T) {
	grid := newTestGrid(t, 4, 2, 14, func(r, c int) []float64 { return []float64{1, 1} })

	_, err := ReferenceVector(grid, PatchRange{RowMin: 2, RowMax: 2, ColMin: 0, ColMax: 4})
	assert.ErrorIs(t, err, ErrEmptyRegion)

	_, err = ReferenceVector(grid, PatchRange{RowMin: 3, RowMax: 1, ColMin: 0, ColMax: 4})
	assert.ErrorIs(t, err, ErrEmptyRegion)

	_, err = ReferenceVector(grid, PatchRange{RowMin: 0, RowMax: 5, ColMin: 0, ColMax: 4})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestNewPatchGrid_Shape(t *testing.T) {
	_, err := NewPatchGrid(2, 3, 14, make([]float64, 11))
	assert.ErrorIs(t, err, ErrInternal)

	_, err = NewPatchGrid(0, 3, 14, nil)
	assert.ErrorIs(t, err, ErrInternal)

	g, err := NewPatchGrid(2, 3, 14, make([]float64, 12))
	require.NoError(t, err)
	assert.Equal(t, 28, g.ProcessedSize())
}
