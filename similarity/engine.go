package similarity

import (
	"fmt"
	"image"
)

// Analyze 在已有特征网格上执行 坐标映射 -> 参考向量 -> 相似度 -> 蒙版
//
// # Params:
//
//	grid: 特征网格
//	width, height: 原图尺寸
//	region: 原图坐标下的参考区域
func Analyze(grid *PatchGrid, width, height int, region Region) (*Segmentation, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: 特征网格为空", ErrInternal)
	}
	pr, err := MapRegion(region, width, height, grid.PatchSize, grid.Size)
	if err != nil {
		return nil, err
	}
	ref, err := ReferenceVector(grid, pr)
	if err != nil {
		return nil, err
	}
	sim, err := Score(grid, ref)
	if err != nil {
		return nil, err
	}
	mask, err := NewMask(sim, width, height)
	if err != nil {
		return nil, err
	}
	return &Segmentation{
		Range:      pr,
		Reference:  ref,
		Similarity: sim,
		Mask:       mask,
	}, nil
}

// Engine 绑定特征提取器与输出格式，本身无状态，可并发使用
type Engine struct {
	extractor Extractor
	format    Format
}

// NewEngine 创建分割引擎
//
// # Params:
//
//	extractor: 特征提取器
//	format: 蒙版输出格式
func NewEngine(extractor Extractor, format Format) *Engine {
	if format == "" {
		format = FormatPNG
	}
	return &Engine{extractor: extractor, format: format}
}

// Segment 提取特征并生成蒙版与元数据
func (e *Engine) Segment(img image.Image, region Region) (*Result, error) {
	grid, err := e.extractor.Embed(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	b := img.Bounds()
	return e.SegmentGrid(grid, b.Dx(), b.Dy(), region)
}

// SegmentGrid 在已有特征网格上生成蒙版与元数据
func (e *Engine) SegmentGrid(grid *PatchGrid, width, height int, region Region) (*Result, error) {
	seg, err := Analyze(grid, width, height, region)
	if err != nil {
		return nil, err
	}
	return Encode(seg.Mask, grid, region, e.format)
}
