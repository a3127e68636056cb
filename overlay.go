package patchsim

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/getcharzp/go-patchsim/similarity"
	"github.com/up-zero/gotool/imageutil"
)

// OverlayOptions 叠加图参数
type OverlayOptions struct {
	Opacity  float64     // 蒙版透明度 (0, 1], 默认 0.6
	BoxColor color.RGBA  // 参考区域边框颜色, 默认绿色
	Stroke   int         // 边框宽度, 默认 2
	Drawer   *TextDrawer // (可选) 绘制参考区域坐标标签
}

func (o *OverlayOptions) setDefaults() {
	if o.Opacity <= 0 || o.Opacity > 1 {
		o.Opacity = 0.6
	}
	if o.BoxColor == (color.RGBA{}) {
		o.BoxColor = color.RGBA{G: 255, A: 255}
	}
	if o.Stroke <= 0 {
		o.Stroke = 2
	}
}

// Overlay 把热力图蒙版叠加到原图上，并标出参考区域
//
// # Params:
//
//	img: 原图
//	mask: 与原图同尺寸的灰度蒙版
//	region: 参考区域 (原图坐标)
//	opt: 叠加参数
func Overlay(img image.Image, mask *image.Gray, region similarity.Region, opt OverlayOptions) (*image.RGBA, error) {
	opt.setDefaults()
	b := img.Bounds()
	if mask.Bounds().Dx() != b.Dx() || mask.Bounds().Dy() != b.Dy() {
		return nil, fmt.Errorf("蒙版尺寸 %v 与原图尺寸 %v 不一致", mask.Bounds().Size(), b.Size())
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	a := opt.Opacity
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			heat := heatColor(float64(mask.GrayAt(mask.Rect.Min.X+x, mask.Rect.Min.Y+y).Y) / 255)
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = blend(dst.Pix[i+0], heat.R, a)
			dst.Pix[i+1] = blend(dst.Pix[i+1], heat.G, a)
			dst.Pix[i+2] = blend(dst.Pix[i+2], heat.B, a)
			dst.Pix[i+3] = 255
		}
	}

	box := image.Rect(region.XMin, region.YMin, region.XMax, region.YMax).Canon().Intersect(dst.Bounds())
	if !box.Empty() {
		imageutil.DrawThickRectOutline(dst, box, opt.BoxColor, min(opt.Stroke, box.Dx(), box.Dy()))
		if opt.Drawer != nil {
			label := fmt.Sprintf("(%d,%d)-(%d,%d)", region.XMin, region.YMin, region.XMax, region.YMax)
			_, h := opt.Drawer.Measure(label)
			ly := max(box.Min.Y-h-6, 0)
			opt.Drawer.DrawLabel(dst, label, box.Min.X, ly, color.White, color.RGBA{A: 160})
		}
	}
	return dst, nil
}

// heatColor jet 色表, v 取值 [0, 1]
func heatColor(v float64) color.RGBA {
	ch := func(offset float64) uint8 {
		c := 1.5 - math.Abs(4*v-offset)
		return uint8(math.Round(math.Max(0, math.Min(1, c)) * 255))
	}
	return color.RGBA{R: ch(3), G: ch(2), B: ch(1), A: 255}
}

func blend(src, over uint8, a float64) uint8 {
	return uint8(math.Round(float64(src)*(1-a) + float64(over)*a))
}
