// Package visualization renders PNG artifacts (word cloud, metric charts)
// from analysis output. Artifacts are ephemeral: generated per request and
// never persisted.
package visualization

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/psykhi/wordclouds"
	"golang.org/x/image/font/gofont/goregular"

	"docedit/internal/model"
)

// ErrNothingToRender is returned for empty or degenerate input.
var ErrNothingToRender = errors.New("nothing to render")

const (
	cloudWidth  = 800
	cloudHeight = 400
)

var cloudColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
}

var (
	fontOnce sync.Once
	fontPath string
	fontErr  error
)

// cloudFont spills the embedded Go regular face to a temp file once; the
// word-cloud renderer only accepts a font path.
func cloudFont() (string, error) {
	fontOnce.Do(func() {
		path := filepath.Join(os.TempDir(), "docedit-goregular.ttf")
		if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
			fontErr = fmt.Errorf("write cloud font: %w", err)
			return
		}
		fontPath = path
	})
	return fontPath, fontErr
}

// WordCloud renders keyword frequencies as a PNG word cloud. Layout placement
// is randomized by the underlying renderer; only the input ranking is
// deterministic.
func WordCloud(keywords []model.Keyword) ([]byte, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("word cloud: %w", ErrNothingToRender)
	}

	font, err := cloudFont()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(keywords))
	for _, kw := range keywords {
		counts[kw.Term] = kw.Frequency
	}

	cloud := wordclouds.NewWordcloud(
		counts,
		wordclouds.FontFile(font),
		wordclouds.Width(cloudWidth),
		wordclouds.Height(cloudHeight),
		wordclouds.FontMaxSize(90),
		wordclouds.FontMinSize(12),
		wordclouds.Colors(cloudColors),
		wordclouds.BackgroundColor(color.White),
	)

	img := cloud.Draw()

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("encode word cloud: %w", err)
	}
	return buf.Bytes(), nil
}
