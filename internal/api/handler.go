package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/getcharzp/go-patchsim/similarity"
	"github.com/gin-gonic/gin"
)

// Segmenter 上传接口背后的分割流程
type Segmenter interface {
	Segment(ctx context.Context, data []byte, region similarity.Region) (*similarity.Result, error)
}

// Handler HTTP 处理器
type Handler struct {
	segmenter Segmenter
	logger    *slog.Logger
}

// NewHandler 创建 HTTP 处理器
//
// # Params:
//
//	segmenter: 分割流程
//	logger: (可选) 日志, 默认 slog.Default()
func NewHandler(segmenter Segmenter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{segmenter: segmenter, logger: logger}
}

// Healthz 健康检查, 返回 {"status":"ok"}
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UploadAndSegment 接收 multipart 图片 file 与原图坐标 x_min, y_min, x_max, y_max，
// 返回蒙版与元数据。解码或区域错误返回 400，超出大小返回 413，请求取消返回 503，其余为 500
func (h *Handler) UploadAndSegment(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	region, err := parseRegion(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	res, err := h.segmenter.Segment(c.Request.Context(), data, region)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	h.logger.Info("segmented upload",
		"request_id", c.GetString(requestIDKey),
		"bytes", len(data),
		"original_size", res.Metadata.OriginalSize,
		"region", region)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) fail(c *gin.Context, status int, err error) {
	attrs := []any{"request_id", c.GetString(requestIDKey), "status", status, "error", err}
	if status >= http.StatusInternalServerError {
		h.logger.Error("segment request failed", attrs...)
	} else {
		h.logger.Warn("segment request rejected", attrs...)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, similarity.ErrInputDecode), errors.Is(err, similarity.ErrInvalidRegion):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func parseRegion(c *gin.Context) (similarity.Region, error) {
	var v [4]int
	for i, name := range [4]string{"x_min", "y_min", "x_max", "y_max"} {
		raw, ok := c.GetPostForm(name)
		if !ok {
			return similarity.Region{}, fmt.Errorf("missing form field %q", name)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return similarity.Region{}, fmt.Errorf("form field %q must be an integer: %q", name, raw)
		}
		v[i] = n
	}
	return similarity.Region{XMin: v[0], YMin: v[1], XMax: v[2], YMax: v[3]}, nil
}

func readUpload(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("read upload field \"file\": %w", err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
