package similarity

import (
	"fmt"
	"image"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Mask 原图尺寸的相似度蒙版
type Mask struct {
	Width, Height int
	Values        []float64 // 行优先, 取值 [0, 1]
}

// axisSample 单个输出坐标的双线性采样参数
type axisSample struct {
	i0, i1 int
	w0, w1 float64
}

// axisSamples 半像素中心、不对齐角点的采样坐标 (align_corners=false)
//
// # Params:
//
//	in: 输入尺寸
//	out: 输出尺寸
func axisSamples(in, out int) []axisSample {
	samples := make([]axisSample, out)
	scale := float64(in) / float64(out)
	for d := 0; d < out; d++ {
		src := scale*(float64(d)+0.5) - 0.5
		if src < 0 {
			src = 0
		}
		i0 := int(src)
		i1 := i0
		if i0 < in-1 {
			i1 = i0 + 1
		}
		lambda := src - float64(i0)
		samples[d] = axisSample{i0: i0, i1: i1, w0: 1 - lambda, w1: lambda}
	}
	return samples
}

// Upsample 双线性插值把相似度网格放大到原图尺寸
//
// # Params:
//
//	sim: N×N 相似度网格
//	width, height: 目标尺寸
func Upsample(sim *SimilarityGrid, width, height int) ([]float64, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: 目标尺寸为 %dx%d", ErrInvalidRegion, width, height)
	}
	if sim.Size <= 0 || len(sim.Values) != sim.Size*sim.Size {
		return nil, fmt.Errorf("%w: 相似度网格形状非法", ErrInternal)
	}

	xs := axisSamples(sim.Size, width)
	ys := axisSamples(sim.Size, height)
	out := make([]float64, width*height)

	// 行之间互不依赖，按行并行
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y := 0; y < height; y++ {
		g.Go(func() error {
			sy := ys[y]
			row0 := sim.Values[sy.i0*sim.Size : (sy.i0+1)*sim.Size]
			row1 := sim.Values[sy.i1*sim.Size : (sy.i1+1)*sim.Size]
			dst := out[y*width : (y+1)*width]
			for x, sx := range xs {
				top := sx.w0*row0[sx.i0] + sx.w1*row0[sx.i1]
				bot := sx.w0*row1[sx.i0] + sx.w1*row1[sx.i1]
				dst[x] = sy.w0*top + sy.w1*bot
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Normalize 最小-最大归一化到 [0, 1]，数值全相同时输出全 0
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	den := hi - lo + eps
	for i, v := range values {
		out[i] = clampFloat((v-lo)/den, 0, 1)
	}
	return out
}

// NewMask 放大并归一化相似度网格
//
// # Params:
//
//	sim: N×N 相似度网格
//	width, height: 原图尺寸
func NewMask(sim *SimilarityGrid, width, height int) (*Mask, error) {
	up, err := Upsample(sim, width, height)
	if err != nil {
		return nil, err
	}
	return &Mask{
		Width:  width,
		Height: height,
		Values: Normalize(up),
	}, nil
}

// Gray 量化为 8 位灰度图 round(v*255)
func (m *Mask) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Values {
		img.Pix[i] = quantize(v)
	}
	return img
}

// quantize [0,1] -> [0,255]
func quantize(v float64) uint8 {
	q := math.Round(v * 255)
	return uint8(clampFloat(q, 0, 255))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
