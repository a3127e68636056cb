package dinov2

import (
	"fmt"
	"image"

	patchsim "github.com/getcharzp/go-patchsim"
	"github.com/getcharzp/go-patchsim/similarity"
	"github.com/up-zero/gotool/convertutil"

	ort "github.com/yalue/onnxruntime_go"
)

// Engine 持有 DINOv2 ONNX Session，输出 patch 特征网格
type Engine struct {
	session *ort.DynamicAdvancedSession
	onnx    *patchsim.OnnxConfig
	config  Config
}

var _ similarity.Extractor = (*Engine)(nil)

// NewEngine 初始化 DINOv2 引擎
func NewEngine(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("ModelPath 不能为空")
	}

	onnxConfig := new(patchsim.OnnxConfig)
	if err := convertutil.CopyProperties(cfg, onnxConfig); err != nil {
		return nil, fmt.Errorf("复制参数失败: %w", err)
	}
	// 初始化 ONNX
	if err := onnxConfig.New(); err != nil {
		return nil, err
	}

	session, err := onnxConfig.NewSession(cfg.ModelPath, []string{cfg.InputName}, []string{cfg.OutputName})
	if err != nil {
		onnxConfig.Destroy()
		return nil, err
	}

	return &Engine{
		session: session,
		onnx:    onnxConfig,
		config:  cfg,
	}, nil
}

// Destroy 释放相关资源
func (e *Engine) Destroy() error {
	if e.session != nil {
		if err := e.session.Destroy(); err != nil {
			return fmt.Errorf("销毁 ONNX 会话失败: %w", err)
		}
		e.session = nil
	}
	if e.onnx != nil {
		return e.onnx.Destroy()
	}
	return nil
}

// Config 返回引擎配置
func (e *Engine) Config() Config {
	return e.config
}

// Embed 提取图片的 patch 特征网格
func (e *Engine) Embed(img image.Image) (*similarity.PatchGrid, error) {
	if e.session == nil {
		return nil, fmt.Errorf("引擎已销毁")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("图片尺寸非法: %dx%d", b.Dx(), b.Dy())
	}

	// 预处理
	size := e.config.CropSize
	tensorData := preprocess(img, e.config.ResizeShortEdge, size)
	inputTensor, err := ort.NewTensor(ort.NewShape(1, 3, int64(size), int64(size)), tensorData)
	if err != nil {
		return nil, fmt.Errorf("创建图片 Input Tensor 失败: %w", err)
	}
	defer inputTensor.Destroy()

	// 推理，输出由 onnxruntime 分配
	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("推理失败: %w", err)
	}
	defer outputs[0].Destroy()

	// last_hidden_state [1, prefix+N*N, D]
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("输出类型非 float32 Tensor")
	}
	return gridFromTokens(out.GetData(), out.GetShape(), e.config.NumPrefixTokens, e.config.PatchSize)
}
