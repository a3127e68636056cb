package similarity

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/chai2010/webp"
)

// Format 蒙版输出格式
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat 解析输出格式，空字符串默认 png
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatWebP:
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("不支持的蒙版格式: %s", s)
	}
}

// Metadata 返回给调用方的元数据
type Metadata struct {
	PatchSize       int    `json:"patch_size"`
	NumPatchesH     int    `json:"num_patches_h"`
	NumPatchesW     int    `json:"num_patches_w"`
	OriginalSize    [2]int `json:"original_size"` // [w, h]
	ReferenceRegion Region `json:"reference_region"`
}

// Result 完整响应
type Result struct {
	MaskImage string   `json:"mask_image"` // data URI
	Metadata  Metadata `json:"metadata"`
}

// EncodeGray 把灰度图编码为 base64 data URI
//
// # Params:
//
//	img: 单通道灰度图
//	format: 输出格式
func EncodeGray(img *image.Gray, format Format) (string, error) {
	var buf bytes.Buffer
	switch format {
	case FormatWebP:
		if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
			return "", fmt.Errorf("webp 编码失败: %w", err)
		}
	case FormatPNG, "":
		format = FormatPNG
		if err := png.Encode(&buf, img); err != nil {
			return "", fmt.Errorf("png 编码失败: %w", err)
		}
	default:
		return "", fmt.Errorf("不支持的蒙版格式: %s", format)
	}
	return "data:image/" + string(format) + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Encode 组装蒙版图片与元数据
//
// # Params:
//
//	mask: 归一化后的蒙版
//	grid: 特征网格
//	region: 调用方传入的原始区域 (未裁剪)
//	format: 输出格式
func Encode(mask *Mask, grid *PatchGrid, region Region, format Format) (*Result, error) {
	uri, err := EncodeGray(mask.Gray(), format)
	if err != nil {
		return nil, err
	}
	return &Result{
		MaskImage: uri,
		Metadata:  NewMetadata(grid, mask.Width, mask.Height, region),
	}, nil
}

// NewMetadata 描述一次分割所用的网格与原图尺寸
func NewMetadata(grid *PatchGrid, width, height int, region Region) Metadata {
	return Metadata{
		PatchSize:       grid.PatchSize,
		NumPatchesH:     grid.Size,
		NumPatchesW:     grid.Size,
		OriginalSize:    [2]int{width, height},
		ReferenceRegion: region,
	}
}
