// Package media turns an arbitrary input image into the two JPEG encodings
// a journal entry keeps: a full-size photo and a small thumbnail.
//
// Every encoding goes through the primary compressor (imaging, with EXIF
// auto-orientation and Lanczos resampling). When it fails, an independent
// "canvas" path (stdlib decode, x/image/draw scaling onto an RGBA canvas,
// image/jpeg encode) is tried once. Inputs whose type is unknown or a
// camera-native format are first re-rasterised through the canvas path.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// Input is an image as the user supplied it.
type Input struct {
	Data        []byte
	ContentType string
	Name        string
}

// Result holds the two JPEG encodings.
type Result struct {
	Photo     []byte
	Thumbnail []byte
}

// Target bounds one encoding: long edge in pixels, size in bytes and the
// starting JPEG quality.
type Target struct {
	MaxEdge  int
	MaxBytes int
	Quality  int
}

var (
	PhotoTarget     = Target{MaxEdge: 1920, MaxBytes: 500 * 1024, Quality: 80}
	ThumbnailTarget = Target{MaxEdge: 120, MaxBytes: 10 * 1024, Quality: 70}
)

const (
	minQuality  = 30
	qualityStep = 10
	shrinkRatio = 0.8
	maxRounds   = 6

	// quality used when re-rasterising a problematic input
	normaliseQuality = 92
)

var ErrEmptyInput = errors.New("empty image")

// Stage names the encoding an ImageProcessingError belongs to.
type Stage string

const (
	StagePhoto     Stage = "photo"
	StageThumbnail Stage = "thumbnail"
)

// ImageProcessingError is returned when both the primary and the fallback
// path failed for an encoding.
type ImageProcessingError struct {
	Stage Stage
	Err   error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing failed (%s): %v", e.Stage, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }

// Compressor produces a JPEG within a Target.
type Compressor interface {
	Compress(data []byte, t Target) ([]byte, error)
}

// Pipeline wires a primary and a fallback Compressor.
type Pipeline struct {
	Primary  Compressor
	Fallback Compressor
	log      logging.Logger
}

func NewPipeline(log logging.Logger) *Pipeline {
	return &Pipeline{
		Primary:  ImagingCompressor{},
		Fallback: CanvasCompressor{},
		log:      log.With("module", "media"),
	}
}

var problematicTypes = map[string]struct{}{
	"image/heic":          {},
	"image/heif":          {},
	"image/heic-sequence": {},
	"image/heif-sequence": {},
}

func needsNormalise(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		return true
	}
	_, bad := problematicTypes[ct]
	return bad
}

// DetectContentType returns the declared type, sniffing the bytes when it
// is empty.
func DetectContentType(in Input) string {
	if strings.TrimSpace(in.ContentType) != "" {
		return in.ContentType
	}
	return mimetype.Detect(in.Data).String()
}

// CompressAndCreateThumbnail produces both encodings concurrently.
func (p *Pipeline) CompressAndCreateThumbnail(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) == 0 {
		return nil, &ImageProcessingError{Stage: StagePhoto, Err: ErrEmptyInput}
	}

	data := p.normalise(ctx, in)

	res := &Result{}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := p.encode(ctx, StagePhoto, data, PhotoTarget)
		res.Photo = b
		return err
	})
	g.Go(func() error {
		b, err := p.encode(ctx, StageThumbnail, data, ThumbnailTarget)
		res.Thumbnail = b
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// CompressImage produces only the full-size photo.
func (p *Pipeline) CompressImage(ctx context.Context, in Input) ([]byte, error) {
	if len(in.Data) == 0 {
		return nil, &ImageProcessingError{Stage: StagePhoto, Err: ErrEmptyInput}
	}
	return p.encode(ctx, StagePhoto, p.normalise(ctx, in), PhotoTarget)
}

// CreateThumbnail produces only the thumbnail.
func (p *Pipeline) CreateThumbnail(ctx context.Context, in Input) ([]byte, error) {
	if len(in.Data) == 0 {
		return nil, &ImageProcessingError{Stage: StageThumbnail, Err: ErrEmptyInput}
	}
	return p.encode(ctx, StageThumbnail, p.normalise(ctx, in), ThumbnailTarget)
}

func (p *Pipeline) normalise(ctx context.Context, in Input) []byte {
	ct := DetectContentType(in)
	if !needsNormalise(ct) {
		return in.Data
	}

	out, err := CanvasCompressor{}.Reencode(in.Data, normaliseQuality)
	if err != nil {
		p.log.Debug(ctx, "re-encode of problematic input failed, continuing with original bytes",
			"name", in.Name, "content_type", ct, "error", err)
		return in.Data
	}
	return out
}

func (p *Pipeline) encode(ctx context.Context, stage Stage, data []byte, t Target) ([]byte, error) {
	out, err := p.Primary.Compress(data, t)
	if err == nil {
		return keepSmaller(data, out, t), nil
	}
	p.log.Warn(ctx, "primary compressor failed, using fallback", "stage", string(stage), "error", err)

	out, fbErr := p.Fallback.Compress(data, t)
	if fbErr != nil {
		return nil, &ImageProcessingError{Stage: stage, Err: errors.Join(err, fbErr)}
	}
	return keepSmaller(data, out, t), nil
}

// keepSmaller returns the source when it already is a JPEG inside the edge
// bound that is no larger than the new encoding.
func keepSmaller(src, out []byte, t Target) []byte {
	if len(src) > len(out) || len(src) > t.MaxBytes {
		return out
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil || format != "jpeg" {
		return out
	}
	if cfg.Width > t.MaxEdge || cfg.Height > t.MaxEdge {
		return out
	}
	return src
}
