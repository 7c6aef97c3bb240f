package save

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"iwutil/internal/fsx"
)

// DefaultFigExt is the image extension used by Fig.
const DefaultFigExt = "png"

// Figure is anything that can render itself to an image file. The extension
// of path selects the encoder.
type Figure interface {
	Save(path string) error
}

// PlotFigure adapts a gonum plot to Figure. Zero sizes fall back to
// 6.4in × 4.8in.
type PlotFigure struct {
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
}

func (f PlotFigure) Save(path string) error {
	if f.Plot == nil {
		return fmt.Errorf("save figure %s: nil plot", path)
	}
	w, h := f.Width, f.Height
	if w <= 0 {
		w = 6.4 * vg.Inch
	}
	if h <= 0 {
		h = 4.8 * vg.Inch
	}
	return f.Plot.Save(w, h, path)
}

// Fig renders fig to folder/name.png.
func Fig(fig Figure, folder, name string) (string, error) {
	path := Path(folder, name, DefaultFigExt)
	return path, FigTo(fig, path)
}

// figFormats are the image extensions gonum/plot can encode.
var figFormats = map[string]bool{
	"eps": true, "jpg": true, "jpeg": true, "pdf": true, "png": true,
	"svg": true, "tex": true, "tif": true, "tiff": true,
}

// FigTo renders fig to filename; the extension (png, svg, pdf, jpg, ...)
// picks the format. Other extensions fail with ErrUnsupportedFormat before
// anything is written.
func FigTo(fig Figure, filename string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !figFormats[ext] {
		return fmt.Errorf("%w: figure %q", fsx.ErrUnsupportedFormat, filename)
	}
	if err := CreateParent(filename); err != nil {
		return err
	}
	if err := fig.Save(filename); err != nil {
		return fsx.Classify(err)
	}
	return nil
}
