package pipeline

import (
	"strings"
	"testing"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/palette"
	"github.com/treesquares/treesquares/pkg/render/svg"
	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
	"github.com/treesquares/treesquares/pkg/render/treemap/styles"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"pdf", false},
		{"png", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format should fail with %s, got %v", errors.ErrCodeInvalidFormat, err)
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Hierarchy: []string{"landsdel"}, Area: "yta"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Canvas != DefaultCanvas || opts.Orientation != svg.Landscape {
		t.Errorf("canvas = %s %s, want %s landscape", opts.Canvas, opts.Orientation, DefaultCanvas)
	}
	if opts.Gap != DefaultGap || opts.Scale != DefaultScale {
		t.Errorf("gap, scale = %g, %g", opts.Gap, opts.Scale)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("logger not set")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no levels", Options{Area: "yta"}, errors.ErrCodeInvalidInput},
		{"blank level", Options{Hierarchy: []string{" "}, Area: "yta"}, errors.ErrCodeInvalidInput},
		{"no area", Options{Hierarchy: []string{"lan"}}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Hierarchy: []string{"lan"}, Area: "yta", Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad canvas", Options{Hierarchy: []string{"lan"}, Area: "yta", Canvas: "Letter"}, errors.ErrCodeInvalidCanvas},
		{"bad orientation", Options{Hierarchy: []string{"lan"}, Area: "yta", Orientation: "sideways"}, errors.ErrCodeInvalidCanvas},
		{"rule without color", Options{Hierarchy: []string{"lan"}, Area: "yta", Rules: styles.Rules{{Op: styles.GreaterThan}}}, errors.ErrCodeInvalidRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDrawingBox(t *testing.T) {
	opts := Options{Canvas: "A4", Orientation: svg.Portrait}
	c, err := opts.NewCanvas()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := opts.DrawingBox(c), (layout.Rect{X1: 210, Y1: 297}); got != want {
		t.Errorf("DrawingBox = %v, want %v", got, want)
	}

	box := layout.Rect{X0: 5, Y0: 5, X1: 205, Y1: 292}
	opts.Box = &box
	if got := opts.DrawingBox(c); got != box {
		t.Errorf("DrawingBox = %v, want %v", got, box)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Hierarchy: []string{"lan"}, Area: "yta"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	box := layout.Rect{X1: 332, Y1: 241.9}

	base := opts.ArtifactKeyOpts(FormatSVG, box)
	if base.Palette != "" {
		t.Errorf("palette hash without palette: %q", base.Palette)
	}

	opts.Palette = palette.Palette{"skog": "#1e8449"}
	withPalette := opts.ArtifactKeyOpts(FormatSVG, box)
	if withPalette.Palette == "" {
		t.Error("palette not part of the key")
	}

	png := opts.ArtifactKeyOpts(FormatPNG, box)
	if !strings.HasPrefix(png.Format, "png@") {
		t.Errorf("png format key = %q, want scale suffix", png.Format)
	}

	nudged := opts.ArtifactKeyOpts(FormatSVG, layout.Rect{X1: 332.004, Y1: 241.9})
	if nudged.Box == withPalette.Box {
		t.Errorf("boxes differing in the third decimal share key %q", nudged.Box)
	}
}
