package textframe

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func charWidth(s string) float64 { return float64(len(s)) }

func TestWrapLinesGreedy(t *testing.T) {
	got := WrapLines("ten take away four leaves six", 14, charWidth)
	want := []string{"ten take away", "four leaves", "six"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrap: want=%q got=%q", want, got)
	}
}

func TestWrapLinesOverWideWordOwnLine(t *testing.T) {
	got := WrapLines("a supercalifragilistic b", 5, charWidth)
	want := []string{"a", "supercalifragilistic", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrap: want=%q got=%q", want, got)
	}
}

func TestWrapLinesEmpty(t *testing.T) {
	if got := WrapLines("  \n\t ", 100, charWidth); len(got) != 0 {
		t.Fatalf("wrap empty: got=%q", got)
	}
}

func TestWrapLinesNeverSplitsWords(t *testing.T) {
	text := "Start at ten and count back four steps to find the answer"
	lines := WrapLines(text, 18, charWidth)
	if strings.Join(lines, " ") != text {
		t.Fatalf("rejoined lines differ: %q", lines)
	}
	for _, l := range lines {
		if charWidth(l) > 18 && strings.Contains(l, " ") {
			t.Fatalf("multi-word line exceeds width: %q", l)
		}
	}
}

func TestRenderPNGDimensions(t *testing.T) {
	r, err := New(Options{Width: 320, Height: 180, FontSize: 18})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	path := filepath.Join(t.TempDir(), "frames", "s_intro_narration.png")
	if err := r.RenderPNG(context.Background(), "What is ten minus four? Let's count back together.", path); err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Fatalf("bounds: want=320x180 got=%dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderDefaultsTo1080p(t *testing.T) {
	r, err := New(Options{})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if b := r.Render("hi").Bounds(); b.Dx() != 1920 || b.Dy() != 1080 {
		t.Fatalf("bounds: got=%dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderGradientCorners(t *testing.T) {
	r, err := New(Options{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	img := r.Render("")
	top := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	bottom := color.NRGBAModel.Convert(img.At(0, 99)).(color.NRGBA)
	if top.B >= bottom.B {
		t.Fatalf("gradient: want top darker than bottom, top=%v bottom=%v", top, bottom)
	}
}

func TestRenderScalesBackground(t *testing.T) {
	dir := t.TempDir()
	bgPath := filepath.Join(dir, "bg.png")
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	f, err := os.Create(bgPath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	_ = f.Close()

	r, err := New(Options{Width: 64, Height: 36, BackgroundPath: bgPath})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	c := color.NRGBAModel.Convert(r.Render("").At(63, 35)).(color.NRGBA)
	if c.R < 190 || c.G != 0 || c.B != 0 {
		t.Fatalf("background pixel: got=%v", c)
	}
}

func TestNewRejectsMissingBackground(t *testing.T) {
	if _, err := New(Options{BackgroundPath: filepath.Join(t.TempDir(), "nope.png")}); err == nil {
		t.Fatalf("want error for missing background")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1E3C78")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c != (color.NRGBA{R: 30, G: 60, B: 120, A: 255}) {
		t.Fatalf("color: got=%v", c)
	}
	if _, err := ParseHexColor("blue"); err == nil {
		t.Fatalf("want error")
	}
}

func TestRenderPNGHonorsCancel(t *testing.T) {
	r, err := New(Options{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "x.png")
	if err := r.RenderPNG(ctx, "x", path); err == nil {
		t.Fatalf("want context error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("frame should not exist after cancel")
	}
}

func TestRenderPNGFailedWriteLeavesNoFrame(t *testing.T) {
	r, err := New(Options{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "s_summary_narration.png")
	blocker := path + ".tmp"
	if err := os.MkdirAll(filepath.Join(blocker, "busy"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := r.RenderPNG(context.Background(), "x", path); err == nil {
		t.Fatalf("want write error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("frame should not exist after failed write")
	}

	ok := filepath.Join(dir, "s_intro_narration.png")
	if err := r.RenderPNG(context.Background(), "x", ok); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(ok + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind")
	}
}
