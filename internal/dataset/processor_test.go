package dataset

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/loraforge/loraprep/internal/geometry"
)

func testImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func intPtr(v int) *int { return &v }

func TestTransform_CropMode(t *testing.T) {
	p := NewProcessor(ProcessConfig{
		TargetWidth:  512,
		TargetHeight: 512,
		Resample:     geometry.Lanczos,
	})

	got, err := p.Transform(testImage(800, 600))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	b := got.Bounds()
	if b.Dx() != 512 || b.Dy() != 512 {
		t.Errorf("got %dx%d, want 512x512", b.Dx(), b.Dy())
	}
}

func TestTransform_LetterboxMode(t *testing.T) {
	p := NewProcessor(ProcessConfig{
		TargetWidth:  512,
		TargetHeight: 512,
		Letterbox:    true,
		Resample:     geometry.Lanczos,
	})

	got, err := p.Transform(testImage(400, 800))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	b := got.Bounds()
	if b.Dx() != 512 || b.Dy() != 512 {
		t.Errorf("got %dx%d, want 512x512", b.Dx(), b.Dy())
	}

	// Tall source scaled to 256x512, so the left margin is fill-colored.
	px := color.NRGBAModel.Convert(got.At(0, 256)).(color.NRGBA)
	if px != (color.NRGBA{A: 255}) {
		t.Errorf("border pixel = %v, want opaque black", px)
	}
}

func TestTransform_ConstraintsApplyBeforeCrop(t *testing.T) {
	p := NewProcessor(ProcessConfig{
		TargetWidth:  100,
		TargetHeight: 100,
		Constraints: geometry.Constraints{
			MaxWidth:     intPtr(400),
			AllowUpscale: true,
		},
		Resample: geometry.Lanczos,
	})

	got, err := p.Transform(testImage(800, 600))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	b := got.Bounds()
	if b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("got %dx%d, want 100x100", b.Dx(), b.Dy())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := testImage(64, 48)

	for _, name := range []string{"out.png", "out.jpg", "out.webp"} {
		path := filepath.Join(dir, name)
		if err := Save(src, path, DefaultSaveOptions()); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}

		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", name, err)
		}
		b := loaded.Bounds()
		if b.Dx() != 64 || b.Dy() != 48 {
			t.Errorf("%s: got %dx%d, want 64x48", name, b.Dx(), b.Dy())
		}
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.png")
	destPath := filepath.Join(dir, "out", "src.png")
	if err := Save(testImage(300, 200), srcPath, DefaultSaveOptions()); err != nil {
		t.Fatal(err)
	}

	p := NewProcessor(ProcessConfig{
		TargetWidth:  128,
		TargetHeight: 128,
		Resample:     geometry.Lanczos,
	})

	written, err := p.ProcessFile(srcPath, destPath)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if !written {
		t.Fatal("expected destination to be written")
	}

	out, err := Load(destPath)
	if err != nil {
		t.Fatalf("failed to load output: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("output is %dx%d, want 128x128", b.Dx(), b.Dy())
	}

	// Without overwrite the existing output is kept.
	written, err = p.ProcessFile(srcPath, destPath)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if written {
		t.Error("expected existing destination to be skipped")
	}
}

func TestProcessFile_DryRun(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.png")
	destPath := filepath.Join(dir, "out.png")
	if err := Save(testImage(100, 100), srcPath, DefaultSaveOptions()); err != nil {
		t.Fatal(err)
	}

	p := NewProcessor(ProcessConfig{
		TargetWidth:  64,
		TargetHeight: 64,
		DryRun:       true,
		Resample:     geometry.Lanczos,
	})

	written, err := p.ProcessFile(srcPath, destPath)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if written {
		t.Error("dry run must not report a write")
	}
	if _, err := os.Stat(destPath); !os.IsNotExist(err) {
		t.Error("dry run must not create output files")
	}
}

func TestProcessBatch(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	for _, name := range []string{"a.png", "b.png"} {
		if err := Save(testImage(200, 100), filepath.Join(inDir, name), DefaultSaveOptions()); err != nil {
			t.Fatal(err)
		}
	}
	// A corrupt image fails its item but not the batch.
	if err := os.WriteFile(filepath.Join(inDir, "broken.jpg"), []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewProcessor(ProcessConfig{
		TargetWidth:  64,
		TargetHeight: 64,
		Resample:     geometry.Lanczos,
	})

	stats, err := p.ProcessBatch(inDir, outDir)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}
	if stats.Processed != 2 {
		t.Errorf("processed = %d, want 2", stats.Processed)
	}
	if stats.Failed != 1 {
		t.Errorf("failed = %d, want 1", stats.Failed)
	}

	for _, name := range []string{"a.png", "b.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}
