// Command patchsim segments a local image by similarity to a reference region
// and writes the mask, a heat-map overlay and the metadata to a directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	patchsim "github.com/getcharzp/go-patchsim"
	"github.com/getcharzp/go-patchsim/dinov2"
	"github.com/getcharzp/go-patchsim/internal/config"
	"github.com/getcharzp/go-patchsim/internal/logger"
	"github.com/getcharzp/go-patchsim/similarity"
	"github.com/up-zero/gotool/imageutil"
)

func main() {
	var in, outDir, regionStr, modelPath string
	var opacity float64
	var noLabel bool

	flag.StringVar(&in, "in", "", "input image path (jpg/png/webp/gif/bmp/tiff)")
	flag.StringVar(&regionStr, "region", "", "reference region x_min,y_min,x_max,y_max in pixels")
	flag.StringVar(&outDir, "out", "out", "output directory")
	flag.StringVar(&modelPath, "model", "", "DINOv2 ONNX model path (overrides DINOV2_MODEL_PATH)")
	flag.Float64Var(&opacity, "opacity", 0.6, "overlay mask opacity (0..1]")
	flag.BoolVar(&noLabel, "nolabel", false, "do not caption the reference region on the overlay")
	flag.Parse()

	if in == "" || regionStr == "" {
		log.Fatalf("usage: %s -in image.jpg -region x0,y0,x1,y1 [-out outdir] [-model dinov2.onnx]", filepath.Base(os.Args[0]))
	}
	region, err := parseRegion(regionStr)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if modelPath != "" {
		cfg.Model.ModelPath = modelPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	l := logger.New(cfg.App.LogLevel)

	data, err := os.ReadFile(in)
	if err != nil {
		log.Fatal(err)
	}
	img, err := similarity.DecodeImageLimit(data, cfg.App.MaxPixels)
	if err != nil {
		log.Fatal(err)
	}
	b := img.Bounds()

	engine, err := dinov2.NewEngine(cfg.Dinov2())
	if err != nil {
		log.Fatalf("failed to load DINOv2: %v", err)
	}
	defer engine.Destroy()

	grid, err := engine.Embed(img)
	if err != nil {
		log.Fatalf("feature extraction failed: %v", err)
	}
	seg, err := similarity.Analyze(grid, b.Dx(), b.Dy(), region)
	if err != nil {
		log.Fatal(err)
	}
	l.Info("segmented", "input", in, "width", b.Dx(), "height", b.Dy(),
		"grid", grid.Size, "patches", seg.Range.Count())

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	mask := seg.Mask.Gray()
	if err := imageutil.Save(filepath.Join(outDir, "mask.png"), mask, 100); err != nil {
		log.Fatal(err)
	}

	opt := patchsim.OverlayOptions{Opacity: opacity}
	if !noLabel {
		drawer, err := patchsim.NewDefaultTextDrawer()
		if err != nil {
			log.Fatal(err)
		}
		defer drawer.Close()
		opt.Drawer = drawer
	}
	overlay, err := patchsim.Overlay(img, mask, region, opt)
	if err != nil {
		log.Fatal(err)
	}
	if err := imageutil.Save(filepath.Join(outDir, "overlay.png"), overlay, 100); err != nil {
		log.Fatal(err)
	}

	meta, err := json.MarshalIndent(similarity.NewMetadata(grid, b.Dx(), b.Dy(), region), "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "metadata.json"), meta, 0o644); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("wrote mask.png, overlay.png, metadata.json to %s\n", outDir)
}

func parseRegion(s string) (similarity.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return similarity.Region{}, fmt.Errorf("region must be x_min,y_min,x_max,y_max: %q", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return similarity.Region{}, fmt.Errorf("region value %q is not an integer", p)
		}
		v[i] = n
	}
	return similarity.Region{XMin: v[0], YMin: v[1], XMax: v[2], YMax: v[3]}, nil
}
