package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getcharzp/go-patchsim/internal/cache"
	"github.com/getcharzp/go-patchsim/similarity"
	"golang.org/x/sync/semaphore"
)

// Options 分割服务参数
type Options struct {
	ModelID       string            // 模型标识, 用于区分缓存键
	Format        similarity.Format // 蒙版格式, 默认 png
	MaxConcurrent int               // 同时进行的特征提取数, 默认 1
	MaxPixels     int               // 图片像素上限, <= 0 表示不限制
	Cache         cache.Store       // (可选) 网格缓存, 默认不缓存
	Logger        *slog.Logger      // (可选) 日志
}

// Segmenter 处理单次上传: 解码, 查缓存或提取特征, 再执行相似度分割
type Segmenter struct {
	extractor similarity.Extractor
	engine    *similarity.Engine
	cache     cache.Store
	sem       *semaphore.Weighted
	modelID   string
	maxPixels int
	logger    *slog.Logger
}

// NewSegmenter 创建分割服务
//
// # Params:
//
//	extractor: 特征提取器
//	opts: 服务参数
func NewSegmenter(extractor similarity.Extractor, opts Options) *Segmenter {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Segmenter{
		extractor: extractor,
		engine:    similarity.NewEngine(extractor, opts.Format),
		cache:     opts.Cache,
		sem:       semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		modelID:   opts.ModelID,
		maxPixels: opts.MaxPixels,
		logger:    opts.Logger,
	}
}

// Segment 解码图片并返回参考区域对应的蒙版与元数据
//
// 缓存读写失败只记录日志; 等待特征提取时 ctx 取消会直接返回 ctx 的错误
func (s *Segmenter) Segment(ctx context.Context, data []byte, region similarity.Region) (*similarity.Result, error) {
	img, err := similarity.DecodeImageLimit(data, s.maxPixels)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()

	key := cache.Key(s.modelID, data)
	grid, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("grid cache lookup failed", "error", err)
	}

	if !hit {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		grid, err = s.extractor.Embed(img)
		s.sem.Release(1)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", similarity.ErrExtraction, err)
		}
		if err := s.cache.Set(ctx, key, grid); err != nil {
			s.logger.Warn("grid cache store failed", "error", err)
		}
	}

	s.logger.Debug("patch grid ready",
		"cache_hit", hit,
		"width", b.Dx(), "height", b.Dy(),
		"grid", grid.Size, "dim", grid.Dim, "patch_size", grid.PatchSize)

	return s.engine.SegmentGrid(grid, b.Dx(), b.Dy(), region)
}
