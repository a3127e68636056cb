package similarity

import (
	"fmt"
	"math"
)

// MapRegion 将原图像素坐标下的参考区域映射为 patch 索引范围
//
// 假设特征提取模型会把任意图片缩放到 processed×processed (processed = n * patchSize)，
// 坐标按各自方向的比例缩放。越界、反向的区域会被裁剪而非报错，
// 裁剪后退化的范围向网格内部扩展一格，保证至少覆盖 1×1 个 patch。
//
// # Params:
//
//	region: 原图坐标下的参考区域
//	origW, origH: 原图尺寸
//	patchSize: patch 边长
//	n: 网格边长
func MapRegion(region Region, origW, origH, patchSize, n int) (PatchRange, error) {
	if origW <= 0 || origH <= 0 {
		return PatchRange{}, fmt.Errorf("%w: 图片尺寸为 %dx%d", ErrInvalidRegion, origW, origH)
	}
	if patchSize <= 0 || n <= 0 {
		return PatchRange{}, fmt.Errorf("%w: patch 尺寸(%d)或网格大小(%d)非法", ErrInvalidRegion, patchSize, n)
	}

	processed := float64(n * patchSize)
	scaleH := processed / float64(origH)
	scaleW := processed / float64(origW)

	xMin, xMax := ordered(region.XMin, region.XMax)
	yMin, yMax := ordered(region.YMin, region.YMax)

	rowMin, rowMax := toPatchIndex(yMin, yMax, scaleH, processed, patchSize, n)
	colMin, colMax := toPatchIndex(xMin, xMax, scaleW, processed, patchSize, n)

	return PatchRange{
		RowMin: rowMin,
		RowMax: rowMax,
		ColMin: colMin,
		ColMax: colMax,
	}, nil
}

// toPatchIndex 单个方向的坐标映射：缩放后向零取整，下界向下取整，上界向上取整
func toPatchIndex(lo, hi int, scale, processed float64, patchSize, n int) (int, int) {
	scaledLo := scaleCoord(lo, scale, processed, patchSize)
	scaledHi := scaleCoord(hi, scale, processed, patchSize)

	pLo := clampInt(floorDiv(scaledLo, patchSize), 0, n)
	pHi := clampInt(floorDiv(scaledHi+patchSize-1, patchSize), 0, n)

	// 退化范围扩展
	if pLo >= pHi {
		if pHi < n {
			pHi = pLo + 1
		} else {
			pLo = n - 1
			pHi = n
		}
	}
	return pLo, pHi
}

// scaleCoord 缩放并向零取整，先把浮点值限制在 [-1, processed+patchSize] 内，
// 超大坐标转 int 不会溢出，裁剪结果与不限制时一致
func scaleCoord(v int, scale, processed float64, patchSize int) int {
	f := math.Max(-1, math.Min(float64(v)*scale, processed+float64(patchSize)))
	return int(f)
}

// floorDiv 向下取整的整数除法 (b > 0)
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
