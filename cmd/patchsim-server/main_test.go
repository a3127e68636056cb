package main

import (
	"testing"

	"github.com/getcharzp/go-patchsim/dinov2"
	"github.com/stretchr/testify/assert"
)

func TestModelID(t *testing.T) {
	base := dinov2.DefaultConfig()
	id := modelID(base)
	assert.Equal(t, id, modelID(base))

	changes := map[string]func(c *dinov2.Config){
		"model":  func(c *dinov2.Config) { c.ModelPath = "./dinov2_weights/dinov2-small.onnx" },
		"input":  func(c *dinov2.Config) { c.InputName = "images" },
		"output": func(c *dinov2.Config) { c.OutputName = "x_norm_patchtokens" },
		"resize": func(c *dinov2.Config) { c.ResizeShortEdge = 512 },
		"crop":   func(c *dinov2.Config) { c.CropSize = 448 },
		"patch":  func(c *dinov2.Config) { c.PatchSize = 16 },
		"prefix": func(c *dinov2.Config) { c.NumPrefixTokens = 5 },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			c := base
			change(&c)
			assert.NotEqual(t, id, modelID(c))
		})
	}

	// 运行时库路径与线程数不影响特征
	c := base
	c.OnnxRuntimeLibPath = "/opt/onnxruntime.so"
	c.NumThreads = 8
	assert.Equal(t, id, modelID(c))
}
