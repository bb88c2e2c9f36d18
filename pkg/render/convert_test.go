package render

import (
	"context"
	"testing"

	"github.com/treesquares/treesquares/pkg/errors"
)

func TestConvertWithoutConverter(t *testing.T) {
	old := converter
	converter = "treesquares-no-such-converter"
	t.Cleanup(func() { converter = old })

	if Available() {
		t.Fatal("Available() = true for a missing program")
	}
	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
}

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10mm" height="10mm" viewBox="0 0 10 10"><rect width="10" height="10" style="fill: red;"/></svg>`)
	png, err := ToPNG(context.Background(), svg, 1)
	if err != nil {
		t.Fatalf("ToPNG() error = %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("ToPNG() did not return a PNG (%d bytes)", len(png))
	}
}
