package similarity

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ReferenceVector 计算参考区域内所有 patch 特征的均值
//
// # Params:
//
//	grid: 特征网格
//	pr: patch 索引范围 [RowMin, RowMax) × [ColMin, ColMax)
func ReferenceVector(grid *PatchGrid, pr PatchRange) ([]float64, error) {
	if pr.Empty() {
		return nil, fmt.Errorf("%w: 行 [%d,%d) 列 [%d,%d)", ErrEmptyRegion, pr.RowMin, pr.RowMax, pr.ColMin, pr.ColMax)
	}
	if pr.RowMin < 0 || pr.ColMin < 0 || pr.RowMax > grid.Size || pr.ColMax > grid.Size {
		return nil, fmt.Errorf("%w: 范围越界 行 [%d,%d) 列 [%d,%d), 网格 %d", ErrInternal,
			pr.RowMin, pr.RowMax, pr.ColMin, pr.ColMax, grid.Size)
	}

	ref := make([]float64, grid.Dim)
	for r := pr.RowMin; r < pr.RowMax; r++ {
		for c := pr.ColMin; c < pr.ColMax; c++ {
			floats.Add(ref, grid.Patch(r, c))
		}
	}
	floats.Scale(1/float64(pr.Count()), ref)
	return ref, nil
}
