package similarity

import (
	"fmt"
	"image"
)

// eps 归一化分母中的极小值，避免全零向量除零
const eps = 1e-8

// Extractor 特征提取能力，输入图片，输出 N×N 的 patch 特征网格
type Extractor interface {
	Embed(img image.Image) (*PatchGrid, error)
}

// PatchGrid patch 特征网格
type PatchGrid struct {
	Size      int       // 网格边长 N (grid_h == grid_w)
	Dim       int       // 特征维度 D
	PatchSize int       // 单个 patch 的像素边长 (模型内部分辨率下)
	Data      []float64 // 行优先 (row, col, dim)
}

// NewPatchGrid 创建特征网格并校验形状
//
// # Params:
//
//	size: 网格边长 N
//	dim: 特征维度 D
//	patchSize: patch 边长
//	data: 长度为 N*N*D 的特征数据
func NewPatchGrid(size, dim, patchSize int, data []float64) (*PatchGrid, error) {
	if size <= 0 || dim <= 0 || patchSize <= 0 {
		return nil, fmt.Errorf("%w: 非法的网格参数 size=%d dim=%d patch=%d", ErrInternal, size, dim, patchSize)
	}
	if len(data) != size*size*dim {
		return nil, fmt.Errorf("%w: 特征长度(%d)与形状 %dx%dx%d 不匹配", ErrInternal, len(data), size, size, dim)
	}
	return &PatchGrid{
		Size:      size,
		Dim:       dim,
		PatchSize: patchSize,
		Data:      data,
	}, nil
}

// ProcessedSize 模型内部处理分辨率 N * patch_size
func (g *PatchGrid) ProcessedSize() int {
	return g.Size * g.PatchSize
}

// Patch 返回 (r, c) 处的特征向量，返回的切片与网格共享内存，调用方不得修改
func (g *PatchGrid) Patch(r, c int) []float64 {
	off := (r*g.Size + c) * g.Dim
	return g.Data[off : off+g.Dim]
}

// Region 原图像素坐标下的参考区域
type Region struct {
	XMin int `json:"x_min"`
	YMin int `json:"y_min"`
	XMax int `json:"x_max"`
	YMax int `json:"y_max"`
}

// PatchRange patch 索引范围，左闭右开
type PatchRange struct {
	RowMin, RowMax int
	ColMin, ColMax int
}

// Empty 范围内是否没有 patch
func (p PatchRange) Empty() bool {
	return p.RowMax <= p.RowMin || p.ColMax <= p.ColMin
}

// Count 范围内 patch 数量
func (p PatchRange) Count() int {
	if p.Empty() {
		return 0
	}
	return (p.RowMax - p.RowMin) * (p.ColMax - p.ColMin)
}

// SimilarityGrid N×N 余弦相似度，取值 [-1, 1]
type SimilarityGrid struct {
	Size   int
	Values []float64 // 行优先
}

// At 返回 (r, c) 处的相似度
func (s *SimilarityGrid) At(r, c int) float64 {
	return s.Values[r*s.Size+c]
}

// Segmentation 单次请求的完整计算结果
type Segmentation struct {
	Range      PatchRange
	Reference  []float64
	Similarity *SimilarityGrid
	Mask       *Mask
}
