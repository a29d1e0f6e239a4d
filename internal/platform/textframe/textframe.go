package textframe

import (
	"context"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// Options controls frame composition. Zero values fall back to DefaultOptions.
type Options struct {
	Width          int
	Height         int
	FontSize       float64
	MaxWidthRatio  float64
	LineSpacing    float64
	OutlineWidth   int
	FontPath       string
	BackgroundPath string
	GradientTop    color.Color
	GradientBottom color.Color
}

func DefaultOptions() Options {
	return Options{
		Width:          1920,
		Height:         1080,
		FontSize:       48,
		MaxWidthRatio:  0.8,
		LineSpacing:    20,
		OutlineWidth:   2,
		GradientTop:    color.NRGBA{R: 30, G: 60, B: 120, A: 255},
		GradientBottom: color.NRGBA{R: 70, G: 90, B: 180, A: 255},
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	if o.MaxWidthRatio <= 0 || o.MaxWidthRatio > 1 {
		o.MaxWidthRatio = def.MaxWidthRatio
	}
	if o.LineSpacing < 0 {
		o.LineSpacing = def.LineSpacing
	}
	if o.OutlineWidth < 0 {
		o.OutlineWidth = 0
	}
	if o.GradientTop == nil {
		o.GradientTop = def.GradientTop
	}
	if o.GradientBottom == nil {
		o.GradientBottom = def.GradientBottom
	}
	return o
}

// Renderer draws centered, outlined captions onto a fixed size canvas.
// It is safe for concurrent use: each render gets its own font face.
type Renderer struct {
	opts Options
	font *truetype.Font
	bg   image.Image
}

func New(opts Options) (*Renderer, error) {
	opts = opts.withDefaults()
	ttf := gobold.TTF
	if p := strings.TrimSpace(opts.FontPath); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		ttf = b
	}
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	r := &Renderer{opts: opts, font: parsed}
	if p := strings.TrimSpace(opts.BackgroundPath); p != "" {
		bg, err := loadBackground(p, opts.Width, opts.Height)
		if err != nil {
			return nil, err
		}
		r.bg = bg
	}
	return r, nil
}

func (r *Renderer) Options() Options { return r.opts }

func (r *Renderer) newFace() font.Face {
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    r.opts.FontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Render composes text over the background.
func (r *Renderer) Render(text string) image.Image {
	w, h := r.opts.Width, r.opts.Height
	dc := gg.NewContext(w, h)
	r.drawBackground(dc)

	face := r.newFace()
	defer face.Close()
	dc.SetFontFace(face)

	measure := func(s string) float64 {
		lw, _ := dc.MeasureString(s)
		return lw
	}
	lines := WrapLines(text, float64(w)*r.opts.MaxWidthRatio, measure)
	if len(lines) == 0 {
		return dc.Image()
	}

	lineHeight := dc.FontHeight()
	n := float64(len(lines))
	y := (float64(h) - n*lineHeight - n*r.opts.LineSpacing) / 2
	cx := float64(w) / 2
	ow := r.opts.OutlineWidth
	for _, line := range lines {
		dc.SetColor(color.Black)
		for dx := -ow; dx <= ow; dx++ {
			for dy := -ow; dy <= ow; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				dc.DrawStringAnchored(line, cx+float64(dx), y+float64(dy), 0.5, 1)
			}
		}
		dc.SetColor(color.White)
		dc.DrawStringAnchored(line, cx, y, 0.5, 1)
		y += lineHeight + r.opts.LineSpacing
	}
	return dc.Image()
}

// RenderPNG renders text and writes it to path as PNG, creating parent
// directories as needed. The file appears under path only once fully encoded.
func (r *Renderer) RenderPNG(ctx context.Context, text string, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img := r.Render(text)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create frame dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := gg.SavePNG(tmp, img); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("encode png: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func (r *Renderer) drawBackground(dc *gg.Context) {
	w, h := float64(r.opts.Width), float64(r.opts.Height)
	if r.bg != nil {
		dc.DrawImage(r.bg, 0, 0)
		return
	}
	grad := gg.NewLinearGradient(0, 0, 0, h)
	grad.AddColorStop(0, r.opts.GradientTop)
	grad.AddColorStop(1, r.opts.GradientBottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
}

func loadBackground(path string, w, h int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// WrapLines greedily packs the whitespace separated words of text into lines
// no wider than maxWidth. A word is never split; one that is wider than
// maxWidth on its own occupies a line by itself.
func WrapLines(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	var lines []string
	current := ""
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		candidate := current + " " + word
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// ParseHexColor parses "#RRGGBB" (the leading # is optional).
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("expected 6 hex chars, got %q", s)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}, nil
}
