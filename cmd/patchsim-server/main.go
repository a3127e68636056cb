// Command patchsim-server serves the upload-and-segment HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/getcharzp/go-patchsim/dinov2"
	"github.com/getcharzp/go-patchsim/internal/api"
	"github.com/getcharzp/go-patchsim/internal/cache"
	"github.com/getcharzp/go-patchsim/internal/config"
	"github.com/getcharzp/go-patchsim/internal/logger"
	"github.com/getcharzp/go-patchsim/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	l := logger.New(cfg.App.LogLevel)
	l.Info("Starting patchsim server", "env", cfg.App.Env, "addr", cfg.App.ServerAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info("Loading DINOv2", "model", cfg.Model.ModelPath, "cuda", cfg.Model.UseCuda)
	engine, err := dinov2.NewEngine(cfg.Dinov2())
	if err != nil {
		l.Error("Failed to load DINOv2", "error", err)
		os.Exit(1)
	}
	defer engine.Destroy()

	var store cache.Store = cache.Nop{}
	if cfg.Cache.RedisURL != "" {
		r, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			l.Warn("Grid cache disabled", "error", err)
		} else {
			defer r.Close()
			store = r
		}
	}

	segmenter := service.NewSegmenter(engine, service.Options{
		ModelID:       modelID(engine.Config()),
		Format:        cfg.Engine.MaskFormat,
		MaxConcurrent: cfg.Engine.MaxConcurrent,
		MaxPixels:     cfg.App.MaxPixels,
		Cache:         store,
		Logger:        l,
	})

	router := api.NewRouter(api.NewHandler(segmenter, l), api.RouterOptions{
		MaxUploadBytes: int64(cfg.App.MaxUploadMB) << 20,
		Release:        cfg.App.Env == config.Production,
		Logger:         l,
	})

	srv := &http.Server{
		Addr:              cfg.App.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("Graceful shutdown failed", "error", err)
	}
}

// modelID 缓存键中的模型标识, 包含所有影响特征网格的配置
func modelID(c dinov2.Config) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d:%d:%d", filepath.Base(c.ModelPath), c.InputName, c.OutputName,
		c.ResizeShortEdge, c.CropSize, c.PatchSize, c.NumPrefixTokens)
}
