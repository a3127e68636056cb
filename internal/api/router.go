// Package api 以 HTTP 方式提供分割接口
package api

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions 路由参数
type RouterOptions struct {
	MaxUploadBytes int64        // 请求体上限, 0 表示不限制
	Release        bool         // gin release 模式
	Logger         *slog.Logger // (可选) 访问日志
}

// NewRouter 创建 gin 路由: /healthz 与 /api/upload_and_segment
//
// # Params:
//
//	h: HTTP 处理器
//	opts: 路由参数
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	if opts.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(opts.Logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{requestIDHeader},
	}))
	if opts.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = opts.MaxUploadBytes
	}

	router.GET("/healthz", h.Healthz)

	upload := router.Group("/api")
	if opts.MaxUploadBytes > 0 {
		upload.Use(MaxBodyBytes(opts.MaxUploadBytes))
	}
	upload.POST("/upload_and_segment", h.UploadAndSegment)

	return router
}
