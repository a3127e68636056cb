package dinov2

import patchsim "github.com/getcharzp/go-patchsim"

// 均值和方差常量 (ImageNet)
const (
	MeanR = 0.485
	MeanG = 0.456
	MeanB = 0.406

	StdR = 0.229
	StdG = 0.224
	StdB = 0.225
)

// Config 配置项
type Config struct {
	// 必填参数
	OnnxRuntimeLibPath string // onnxruntime.dll (或 .so, .dylib) 的路径
	ModelPath          string // DINOv2 ONNX 模型路径

	// 模型参数
	InputName       string // 输入名称, 默认 pixel_values
	OutputName      string // 输出名称, 默认 last_hidden_state
	ResizeShortEdge int    // 短边缩放尺寸, 默认 256
	CropSize        int    // 中心裁剪尺寸, 默认 224
	PatchSize       int    // patch 边长, 默认 14
	NumPrefixTokens int    // 输出中 patch 之前的 token 数 (CLS + registers), 默认 1

	// 可选参数
	UseCuda    bool // (可选) 是否启用 CUDA
	NumThreads int  // (可选) ONNX 线程数, 默认由CPU核心数决定
}

// DefaultConfig 返回默认配置 (facebook/dinov2-base)
func DefaultConfig() Config {
	return Config{
		OnnxRuntimeLibPath: patchsim.DefaultLibraryPath(),
		ModelPath:          "./dinov2_weights/dinov2-base.onnx",
		InputName:          "pixel_values",
		OutputName:         "last_hidden_state",
		ResizeShortEdge:    256,
		CropSize:           224,
		PatchSize:          14,
		NumPrefixTokens:    1,
	}
}

// withDefaults 零值字段回落到默认值
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.OnnxRuntimeLibPath == "" {
		c.OnnxRuntimeLibPath = d.OnnxRuntimeLibPath
	}
	if c.InputName == "" {
		c.InputName = d.InputName
	}
	if c.OutputName == "" {
		c.OutputName = d.OutputName
	}
	if c.ResizeShortEdge <= 0 {
		c.ResizeShortEdge = d.ResizeShortEdge
	}
	if c.CropSize <= 0 {
		c.CropSize = d.CropSize
	}
	if c.PatchSize <= 0 {
		c.PatchSize = d.PatchSize
	}
	if c.NumPrefixTokens < 0 {
		c.NumPrefixTokens = d.NumPrefixTokens
	}
	return c
}
