package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
}

func TestDefaultShapes(t *testing.T) {
	cfg := Default()

	tests := []struct {
		label  string
		width  int
		height int
	}{
		{"1:1", 1024, 1024},
		{"3:4", 896, 1152},
		{"9:16", 768, 1344},
		{"16:9", 1344, 768},
		{"21:9", 1536, 640},
	}

	for _, tt := range tests {
		shape, err := cfg.ResolveShape(tt.label)
		if err != nil {
			t.Errorf("ResolveShape(%q) failed: %v", tt.label, err)
			continue
		}
		if shape.Width != tt.width || shape.Height != tt.height {
			t.Errorf("shape %q = %dx%d, want %dx%d", tt.label, shape.Width, shape.Height, tt.width, tt.height)
		}
		// Training presets are multiples of 64.
		if shape.Width%64 != 0 || shape.Height%64 != 0 {
			t.Errorf("shape %q = %dx%d is not a multiple of 64", tt.label, shape.Width, shape.Height)
		}
	}
}

func TestResolveShape_Unknown(t *testing.T) {
	cfg := Default()
	if _, err := cfg.ResolveShape("2:7"); err == nil {
		t.Error("expected error for unknown shape label")
	}
}

func TestShapeAspect(t *testing.T) {
	s := Shape{Width: 1344, Height: 768}
	if got := s.Aspect(); got != 1344.0/768.0 {
		t.Errorf("Aspect = %v, want %v", got, 1344.0/768.0)
	}
}

func TestShapeLabelsSorted(t *testing.T) {
	labels := Default().ShapeLabels()
	if !sort.StringsAreSorted(labels) {
		t.Errorf("labels are not sorted: %v", labels)
	}
	if len(labels) != len(Default().Shapes) {
		t.Errorf("got %d labels, want %d", len(labels), len(Default().Shapes))
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
behavior:
  resample: bicubic
  jpeg_quality: 90
constraints:
  max_width: 2048
  allow_upscale: false
shapes:
  "2:1":
    width: 1536
    height: 768
caption:
  model: llava
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Behavior.Resample != "bicubic" {
		t.Errorf("resample = %q, want bicubic", cfg.Behavior.Resample)
	}
	if cfg.Behavior.JPEGQuality != 90 {
		t.Errorf("jpeg_quality = %d, want 90", cfg.Behavior.JPEGQuality)
	}
	if cfg.Constraints.MaxWidth != 2048 {
		t.Errorf("max_width = %d, want 2048", cfg.Constraints.MaxWidth)
	}
	if cfg.Constraints.AllowUpscale {
		t.Error("allow_upscale should be false")
	}
	if cfg.Caption.Model != "llava" {
		t.Errorf("caption model = %q, want llava", cfg.Caption.Model)
	}

	// New shapes merge with the defaults.
	if _, err := cfg.ResolveShape("2:1"); err != nil {
		t.Errorf("custom shape missing: %v", err)
	}
	if _, err := cfg.ResolveShape("1:1"); err != nil {
		t.Errorf("default shape lost after load: %v", err)
	}

	// WebP quality keeps its default.
	if cfg.Behavior.WebPQuality != 95 {
		t.Errorf("webp_quality = %d, want default 95", cfg.Behavior.WebPQuality)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad jpeg quality", "behavior:\n  jpeg_quality: 150\n"},
		{"bad shape", "shapes:\n  \"0:1\":\n    width: 0\n    height: 512\n"},
		{"negative constraint", "constraints:\n  max_width: -1\n"},
		{"bad max tokens", "caption:\n  max_tokens: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Behavior.Resample = "nearest"
	cfg.Upload.Bucket = "training-sets"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Behavior.Resample != "nearest" {
		t.Errorf("resample = %q, want nearest", loaded.Behavior.Resample)
	}
	if loaded.Upload.Bucket != "training-sets" {
		t.Errorf("bucket = %q, want training-sets", loaded.Upload.Bucket)
	}
}
