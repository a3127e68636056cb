package similarity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestGrid 按 f(r, c) 生成特征网格
func newTestGrid(t *testing.T, n, dim, patchSize int, f func(r, c int) []float64) *PatchGrid {
	t.Helper()
	data := make([]float64, 0, n*n*dim)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := f(r, c)
			require.Len(t, v, dim)
			data = append(data, v...)
		}
	}
	grid, err := NewPatchGrid(n, dim, patchSize, data)
	require.NoError(t, err)
	return grid
}

// blockGrid 区域内的 patch 指向第一个坐标轴，区域外指向第二个坐标轴，带少量位置扰动
func blockGrid(t *testing.T, n, patchSize int, pr PatchRange) *PatchGrid {
	return newTestGrid(t, n, 4, patchSize, func(r, c int) []float64 {
		jitter := float64(r*n+c) / float64(n*n*10)
		if r >= pr.RowMin && r < pr.RowMax && c >= pr.ColMin && c < pr.ColMax {
			return []float64{1, jitter, 0, 0.1}
		}
		return []float64{jitter, 1, 0, 0.1}
	})
}

type fakeExtractor struct {
	grid *PatchGrid
	err  error
	n    int
}

func (f *fakeExtractor) Embed(image.Image) (*PatchGrid, error) {
	f.n++
	return f.grid, f.err
}
