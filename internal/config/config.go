package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	patchsim "github.com/getcharzp/go-patchsim"
	"github.com/getcharzp/go-patchsim/dinov2"
	"github.com/getcharzp/go-patchsim/similarity"
	"github.com/joho/godotenv"
)

// Environment 运行环境
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// AppConfig 服务参数
type AppConfig struct {
	Env         Environment // APP_ENV
	LogLevel    string      // APP_LOG_LEVEL, 默认 development 为 debug, production 为 info
	ServerAddr  string      // APP_SERVER_ADDR
	MaxUploadMB int         // APP_MAX_UPLOAD_MB, 上传大小上限
	MaxPixels   int         // APP_MAX_PIXELS, 图片像素上限
}

// ModelConfig DINOv2 参数, 对应 DINOV2_* 与 ONNX_RUNTIME_LIB_PATH
type ModelConfig struct {
	OnnxRuntimeLibPath string
	ModelPath          string
	PatchSize          int
	CropSize           int
	ResizeShortEdge    int
	NumPrefixTokens    int
	UseCuda            bool
	NumThreads         int
}

// EngineConfig 分割参数, 对应 MASK_FORMAT 与 EMBED_MAX_CONCURRENT
type EngineConfig struct {
	MaskFormat    similarity.Format
	MaxConcurrent int
}

// CacheConfig 网格缓存参数, CACHE_REDIS_URL 为空时不启用
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// Config 全部配置
type Config struct {
	App    AppConfig
	Model  ModelConfig
	Engine EngineConfig
	Cache  CacheConfig
}

// Load 读取 .env (可选) 与环境变量, 未设置的项使用默认值
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := parseEnvironment(getEnv("APP_ENV", "development"))
	defaults := dinov2.DefaultConfig()

	format, err := similarity.ParseFormat(getEnv("MASK_FORMAT", "png"))
	if err != nil {
		return nil, err
	}

	return &Config{
		App: AppConfig{
			Env:         env,
			LogLevel:    getLogLevel(env),
			ServerAddr:  getEnv("APP_SERVER_ADDR", "0.0.0.0:8000"),
			MaxUploadMB: getEnvInt("APP_MAX_UPLOAD_MB", 20),
			MaxPixels:   getEnvInt("APP_MAX_PIXELS", 25_000_000),
		},
		Model: ModelConfig{
			OnnxRuntimeLibPath: getEnv("ONNX_RUNTIME_LIB_PATH", patchsim.DefaultLibraryPath()),
			ModelPath:          getEnv("DINOV2_MODEL_PATH", defaults.ModelPath),
			PatchSize:          getEnvInt("DINOV2_PATCH_SIZE", defaults.PatchSize),
			CropSize:           getEnvInt("DINOV2_CROP_SIZE", defaults.CropSize),
			ResizeShortEdge:    getEnvInt("DINOV2_RESIZE_SHORT_EDGE", defaults.ResizeShortEdge),
			NumPrefixTokens:    getEnvInt("DINOV2_PREFIX_TOKENS", defaults.NumPrefixTokens),
			UseCuda:            getEnvBool("DINOV2_USE_CUDA", false),
			NumThreads:         getEnvInt("DINOV2_NUM_THREADS", 0),
		},
		Engine: EngineConfig{
			MaskFormat:    format,
			MaxConcurrent: getEnvInt("EMBED_MAX_CONCURRENT", 1),
		},
		Cache: CacheConfig{
			RedisURL: getEnv("CACHE_REDIS_URL", ""),
			TTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 600)) * time.Second,
		},
	}, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Model.ModelPath == "" {
		return fmt.Errorf("DINOV2_MODEL_PATH is required")
	}
	if c.Model.OnnxRuntimeLibPath == "" {
		return fmt.Errorf("ONNX_RUNTIME_LIB_PATH is required")
	}
	if c.Model.PatchSize <= 0 || c.Model.CropSize <= 0 || c.Model.ResizeShortEdge <= 0 {
		return fmt.Errorf("DINOV2_PATCH_SIZE, DINOV2_CROP_SIZE and DINOV2_RESIZE_SHORT_EDGE must be positive")
	}
	if c.Model.CropSize%c.Model.PatchSize != 0 {
		return fmt.Errorf("DINOV2_CROP_SIZE (%d) must be a multiple of DINOV2_PATCH_SIZE (%d)", c.Model.CropSize, c.Model.PatchSize)
	}
	if c.Model.NumPrefixTokens < 0 {
		return fmt.Errorf("DINOV2_PREFIX_TOKENS must not be negative")
	}
	if c.Engine.MaxConcurrent < 1 {
		return fmt.Errorf("EMBED_MAX_CONCURRENT must be at least 1")
	}
	if c.App.MaxUploadMB < 1 {
		return fmt.Errorf("APP_MAX_UPLOAD_MB must be at least 1")
	}
	if c.App.MaxPixels < 1 {
		return fmt.Errorf("APP_MAX_PIXELS must be at least 1")
	}
	return nil
}

// Dinov2 转换为特征提取器配置
func (c *Config) Dinov2() dinov2.Config {
	cfg := dinov2.DefaultConfig()
	cfg.OnnxRuntimeLibPath = c.Model.OnnxRuntimeLibPath
	cfg.ModelPath = c.Model.ModelPath
	cfg.PatchSize = c.Model.PatchSize
	cfg.CropSize = c.Model.CropSize
	cfg.ResizeShortEdge = c.Model.ResizeShortEdge
	cfg.NumPrefixTokens = c.Model.NumPrefixTokens
	cfg.UseCuda = c.Model.UseCuda
	cfg.NumThreads = c.Model.NumThreads
	return cfg
}

func parseEnvironment(envStr string) Environment {
	env := Environment(strings.ToLower(envStr))

	switch env {
	case Development, Production:
		return env
	default:
		return Development
	}
}

func getLogLevel(env Environment) string {
	if env == Production {
		return getEnv("APP_LOG_LEVEL", "info")
	}

	return getEnv("APP_LOG_LEVEL", "debug")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
