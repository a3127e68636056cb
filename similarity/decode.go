package similarity

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage 解码上传的图片 (png/jpeg/gif/webp/bmp/tiff)，不限制像素数
func DecodeImage(data []byte) (image.Image, error) {
	return DecodeImageLimit(data, 0)
}

// DecodeImageLimit 解码图片，解码前按文件头校验像素数
//
// # Params:
//
//	data: 图片数据
//	maxPixels: 允许的最大 宽*高, <= 0 表示不限制
func DecodeImageLimit(data []byte, maxPixels int) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: 空文件", ErrInputDecode)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: 图片尺寸为 %dx%d", ErrInvalidRegion, cfg.Width, cfg.Height)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: 图片尺寸 %dx%d 超过 %d 像素上限", ErrInvalidRegion, cfg.Width, cfg.Height, maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputDecode, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: 图片尺寸为 %dx%d", ErrInvalidRegion, b.Dx(), b.Dy())
	}
	return img, nil
}
