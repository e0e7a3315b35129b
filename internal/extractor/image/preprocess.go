package image

import (
	"image"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/feichai0017/text-extractor/internal/extractor"
)

// loadPreprocessed opens the image and applies the preprocessing steps the
// options ask for. Grayscale is always applied; tesseract works on
// luminance anyway and grayscale input sidesteps its own conversion.
func loadPreprocessed(path string, opts extractor.Options) (image.Image, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	img := imaging.Grayscale(src)

	if w, err := strconv.Atoi(opts.Get("width")); err == nil && w > 0 {
		img = imaging.Resize(img, w, 0, imaging.Lanczos)
	}
	if opts.Bool("sharpen") {
		img = imaging.Sharpen(img, 1.0)
	}
	if opts.Bool("contrast") {
		img = imaging.AdjustContrast(img, 20)
	}

	return img, nil
}
