package similarity

import "errors"

var (
	// ErrInputDecode 图片无法解码
	ErrInputDecode = errors.New("图片解码失败")
	// ErrInvalidRegion 参考区域或图片尺寸无法恢复
	ErrInvalidRegion = errors.New("参考区域非法")
	// ErrEmptyRegion 参考区域内没有 patch, 属于内部一致性错误
	ErrEmptyRegion = errors.New("参考区域为空")
	// ErrExtraction 特征提取失败
	ErrExtraction = errors.New("特征提取失败")
	// ErrInternal 内部一致性错误
	ErrInternal = errors.New("内部错误")
)
