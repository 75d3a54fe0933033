package media

import (
	"bytes"
	"image"
	"io"
)

type resizeFunc func(img image.Image, w, h int) image.Image

type encodeFunc func(w io.Writer, img image.Image, quality int) error

// fitDims scales w x h down so the long edge is at most maxEdge, keeping
// the aspect ratio. Images already inside the bound are left alone.
func fitDims(w, h, maxEdge int) (int, int) {
	if w <= maxEdge && h <= maxEdge {
		return w, h
	}
	if w >= h {
		nh := h * maxEdge / w
		if nh < 1 {
			nh = 1
		}
		return maxEdge, nh
	}
	nw := w * maxEdge / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxEdge
}

// encodeWithin encodes img into t. Quality steps down by qualityStep to
// minQuality; when the byte budget still is not met the dimensions shrink by
// shrinkRatio, at most maxRounds times. The last (smallest) attempt is
// returned if nothing fits.
func encodeWithin(img image.Image, t Target, resize resizeFunc, encode encodeFunc) ([]byte, error) {
	b := img.Bounds()
	w, h := fitDims(b.Dx(), b.Dy(), t.MaxEdge)

	var buf bytes.Buffer
	var last []byte

	for round := 0; round <= maxRounds; round++ {
		scaled := img
		if w != b.Dx() || h != b.Dy() {
			scaled = resize(img, w, h)
		}

		for q := t.Quality; q >= minQuality; q -= qualityStep {
			buf.Reset()
			if err := encode(&buf, scaled, q); err != nil {
				return nil, err
			}
			last = append(last[:0], buf.Bytes()...)
			if buf.Len() <= t.MaxBytes {
				return last, nil
			}
		}

		nw, nh := int(float64(w)*shrinkRatio), int(float64(h)*shrinkRatio)
		if nw < 1 || nh < 1 {
			break
		}
		w, h = nw, nh
	}

	return last, nil
}
