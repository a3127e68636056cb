// Package cache 按图片内容缓存特征网格，同一张图重复选区时跳过特征提取
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/getcharzp/go-patchsim/similarity"
)

// Store 特征网格缓存，未命中返回 (nil, false, nil)
type Store interface {
	Get(ctx context.Context, key string) (*similarity.PatchGrid, bool, error)
	Set(ctx context.Context, key string, grid *similarity.PatchGrid) error
}

// Key 由模型标识与原始上传数据的 sha256 生成缓存键
func Key(model string, data []byte) string {
	sum := sha256.Sum256(data)
	return "patchsim:grid:" + model + ":" + hex.EncodeToString(sum[:])
}

// Nop 不做任何缓存
type Nop struct{}

func (Nop) Get(context.Context, string) (*similarity.PatchGrid, bool, error) { return nil, false, nil }

func (Nop) Set(context.Context, string, *similarity.PatchGrid) error { return nil }
