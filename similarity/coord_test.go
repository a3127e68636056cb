package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRegion(t *testing.T) {
	tests := []struct {
		name         string
		region       Region
		origW, origH int
		patch, n     int
		want         PatchRange
	}{
		{
			name:   "448 方图，比例为 1",
			region: Region{XMin: 100, YMin: 100, XMax: 200, YMax: 200},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 7, RowMax: 15, ColMin: 7, ColMax: 15},
		},
		{
			name:   "整图",
			region: Region{XMin: 0, YMin: 0, XMax: 448, YMax: 448},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 0, RowMax: 32, ColMin: 0, ColMax: 32},
		},
		{
			name:   "非整数比例的整图",
			region: Region{XMin: 0, YMin: 0, XMax: 333, YMax: 517},
			origW:  333, origH: 517, patch: 14, n: 16,
			want: PatchRange{RowMin: 0, RowMax: 16, ColMin: 0, ColMax: 16},
		},
		{
			name:   "反向坐标",
			region: Region{XMin: 200, YMin: 200, XMax: 100, YMax: 100},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 7, RowMax: 15, ColMin: 7, ColMax: 15},
		},
		{
			name:   "宽图按方向缩放",
			region: Region{XMin: 400, YMin: 0, XMax: 800, YMax: 224},
			origW:  896, origH: 224, patch: 14, n: 16,
			want: PatchRange{RowMin: 0, RowMax: 16, ColMin: 7, ColMax: 15},
		},
		{
			name:   "1x1 像素",
			region: Region{XMin: 50, YMin: 50, XMax: 51, YMax: 51},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 3, RowMax: 4, ColMin: 3, ColMax: 4},
		},
		{
			name:   "零面积区域落在格线上",
			region: Region{XMin: 28, YMin: 28, XMax: 28, YMax: 28},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 2, RowMax: 3, ColMin: 2, ColMax: 3},
		},
		{
			name:   "完全超出左上",
			region: Region{XMin: -500, YMin: -500, XMax: -10, YMax: -10},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 0, RowMax: 1, ColMin: 0, ColMax: 1},
		},
		{
			name:   "完全超出右下",
			region: Region{XMin: 5000, YMin: 5000, XMax: 6000, YMax: 6000},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 31, RowMax: 32, ColMin: 31, ColMax: 32},
		},
		{
			name:   "部分越界",
			region: Region{XMin: -100, YMin: 400, XMax: 100, YMax: 9000},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 28, RowMax: 32, ColMin: 0, ColMax: 8},
		},
		{
			name:   "int 上限坐标",
			region: Region{XMin: 0, YMin: 0, XMax: math.MaxInt, YMax: math.MaxInt},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 0, RowMax: 32, ColMin: 0, ColMax: 32},
		},
		{
			name:   "超大坐标小图",
			region: Region{XMin: 0, YMin: 0, XMax: 5e18, YMax: 5e18},
			origW:  100, origH: 100, patch: 14, n: 16,
			want: PatchRange{RowMin: 0, RowMax: 16, ColMin: 0, ColMax: 16},
		},
		{
			name:   "int 下限到上限",
			region: Region{XMin: math.MinInt, YMin: math.MinInt, XMax: math.MaxInt, YMax: 10},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 0, RowMax: 1, ColMin: 0, ColMax: 32},
		},
		{
			name:   "int 下限",
			region: Region{XMin: math.MinInt, YMin: math.MinInt, XMax: math.MinInt + 1, YMax: math.MinInt + 1},
			origW:  448, origH: 448, patch: 14, n: 32,
			want: PatchRange{RowMin: 0, RowMax: 1, ColMin: 0, ColMax: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapRegion(tt.region, tt.origW, tt.origH, tt.patch, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.Empty())
		})
	}
}

func TestMapRegion_AlwaysWithinGrid(t *testing.T) {
	const n = 16
	coords := []int{-100000, -449, -1, 0, 1, 13, 14, 15, 223, 224, 225, 448, 100000}
	for _, x0 := range coords {
		for _, x1 := range coords {
			for _, size := range [][2]int{{224, 224}, {640, 480}, {1, 1}, {37, 1001}} {
				region := Region{XMin: x0, YMin: x1, XMax: x1, YMax: x0}
				pr, err := MapRegion(region, size[0], size[1], 14, n)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, pr.RowMin, 0)
				assert.GreaterOrEqual(t, pr.ColMin, 0)
				assert.LessOrEqual(t, pr.RowMax, n)
				assert.LessOrEqual(t, pr.ColMax, n)
				assert.Less(t, pr.RowMin, pr.RowMax)
				assert.Less(t, pr.ColMin, pr.ColMax)
			}
		}
	}
}

func TestMapRegion_Invalid(t *testing.T) {
	region := Region{XMin: 0, YMin: 0, XMax: 10, YMax: 10}

	_, err := MapRegion(region, 0, 100, 14, 16)
	assert.ErrorIs(t, err, ErrInvalidRegion)

	_, err = MapRegion(region, 100, -1, 14, 16)
	assert.ErrorIs(t, err, ErrInvalidRegion)

	_, err = MapRegion(region, 100, 100, 0, 16)
	assert.ErrorIs(t, err, ErrInvalidRegion)

	_, err = MapRegion(region, 100, 100, 14, 0)
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestScaleCoord(t *testing.T) {
	assert.Equal(t, 200, scaleCoord(100, 2, 448, 14))
	assert.Equal(t, 0, scaleCoord(0, 1, 448, 14))
	assert.Equal(t, 462, scaleCoord(math.MaxInt, 1, 448, 14))
	assert.Equal(t, -1, scaleCoord(math.MinInt, 1, 448, 14))
	// 向零取整
	assert.Equal(t, 0, scaleCoord(-1, 0.5, 448, 14))
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 7, floorDiv(100, 14))
	assert.Equal(t, 0, floorDiv(0, 14))
	assert.Equal(t, -1, floorDiv(-5, 14))
	assert.Equal(t, -1, floorDiv(-14, 14))
	assert.Equal(t, -2, floorDiv(-15, 14))
}
