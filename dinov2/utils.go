package dinov2

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/getcharzp/go-patchsim/similarity"
)

// resizeShortEdge 等比缩放，使短边等于 size
func resizeShortEdge(w, h, size int) (int, int) {
	if w <= h {
		return size, int(float64(size) * float64(h) / float64(w))
	}
	return int(float64(size) * float64(w) / float64(h)), size
}

// preprocess 短边缩放 + 中心裁剪 + 归一化，输出 CHW 数据
//
// # Params:
//
//	img: 原图
//	shortEdge: 短边缩放尺寸
//	cropSize: 中心裁剪尺寸
func preprocess(img image.Image, shortEdge, cropSize int) []float32 {
	b := img.Bounds()
	newW, newH := resizeShortEdge(b.Dx(), b.Dy(), shortEdge)

	resized := imaging.Resize(img, newW, newH, imaging.CatmullRom)
	cropped := imaging.CropCenter(resized, cropSize, cropSize)

	return normalizeAndPad(cropped, cropSize, cropSize)
}

// normalizeAndPad 归一化并填充到目标尺寸 (CHW)，不足部分为 0
func normalizeAndPad(src *image.NRGBA, targetW, targetH int) []float32 {
	w := min(src.Rect.Dx(), targetW)
	h := min(src.Rect.Dy(), targetH)
	plane := targetW * targetH
	data := make([]float32, 3*plane)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			r := float32(row[x*4+0]) / 255.0
			g := float32(row[x*4+1]) / 255.0
			b := float32(row[x*4+2]) / 255.0

			idx := y*targetW + x
			data[idx] = (r - MeanR) / StdR
			data[plane+idx] = (g - MeanG) / StdG
			data[2*plane+idx] = (b - MeanB) / StdB
		}
	}
	return data
}

// gridFromTokens 把 last_hidden_state 转为特征网格
//
// # Params:
//
//	data: 模型输出数据
//	shape: 输出形状 [1, T, D] 或 [T, D]
//	prefix: patch 之前的 token 数
//	patchSize: patch 边长
func gridFromTokens(data []float32, shape []int64, prefix, patchSize int) (*similarity.PatchGrid, error) {
	var tokens, dim int
	switch len(shape) {
	case 3:
		if shape[0] != 1 {
			return nil, fmt.Errorf("仅支持 batch=1, 实际为 %d", shape[0])
		}
		tokens, dim = int(shape[1]), int(shape[2])
	case 2:
		tokens, dim = int(shape[0]), int(shape[1])
	default:
		return nil, fmt.Errorf("输出形状 %v 非法", shape)
	}
	if len(data) != tokens*dim {
		return nil, fmt.Errorf("输出长度(%d)与形状 %v 不匹配", len(data), shape)
	}

	numPatches := tokens - prefix
	if numPatches <= 0 {
		return nil, fmt.Errorf("token 数(%d)不足, 前缀 token 为 %d", tokens, prefix)
	}
	n := int(math.Round(math.Sqrt(float64(numPatches))))
	if n*n != numPatches {
		return nil, fmt.Errorf("patch 数(%d)不是完全平方数, 网格必须为正方形", numPatches)
	}

	feats := make([]float64, numPatches*dim)
	for i, v := range data[prefix*dim:] {
		feats[i] = float64(v)
	}
	return similarity.NewPatchGrid(n, dim, patchSize, feats)
}
