package media

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// ImagingCompressor is the primary path.
type ImagingCompressor struct{}

func (ImagingCompressor) Compress(data []byte, t Target) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imaging decode: %w", err)
	}

	resize := func(img image.Image, w, h int) image.Image {
		return imaging.Fit(img, w, h, imaging.Lanczos)
	}
	encode := func(w io.Writer, img image.Image, q int) error {
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(q))
	}

	return encodeWithin(img, t, resize, encode)
}
