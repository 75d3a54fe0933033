package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"golang.org/x/image/draw"
)

// CanvasCompressor decodes with the standard library, draws the image onto
// an RGBA canvas with x/image/draw and encodes with image/jpeg. It shares
// no code with the primary path beyond the size budget loop.
type CanvasCompressor struct{}

func (CanvasCompressor) Compress(data []byte, t Target) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("canvas decode: %w", err)
	}

	return encodeWithin(toCanvas(img), t, canvasResize, canvasEncode)
}

// Reencode rasterises data onto a canvas at its own size and encodes JPEG.
func (CanvasCompressor) Reencode(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("canvas decode: %w", err)
	}

	var buf bytes.Buffer
	if err := canvasEncode(&buf, toCanvas(img), quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toCanvas(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	// white backdrop so transparent regions do not turn black in JPEG
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func canvasResize(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func canvasEncode(w io.Writer, img image.Image, q int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
}
