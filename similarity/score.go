package similarity

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Score 计算每个 patch 与参考向量的余弦相似度
//
// patch 向量与参考向量分别做 L2 归一化 v / (‖v‖ + eps)，再求点积。
//
// # Params:
//
//	grid: 特征网格
//	ref: 参考向量，维度与 patch 特征一致
func Score(grid *PatchGrid, ref []float64) (*SimilarityGrid, error) {
	if len(ref) != grid.Dim {
		return nil, fmt.Errorf("%w: 参考向量维度(%d)与特征维度(%d)不一致", ErrInternal, len(ref), grid.Dim)
	}

	refNorm := make([]float64, len(ref))
	floats.ScaleTo(refNorm, 1/(floats.Norm(ref, 2)+eps), ref)

	n := grid.Size
	values := make([]float64, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			p := grid.Patch(r, c)
			values[r*n+c] = floats.Dot(p, refNorm) / (floats.Norm(p, 2) + eps)
		}
	}
	return &SimilarityGrid{Size: n, Values: values}, nil
}
