package services

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
	_ "golang.org/x/image/webp"

	"github.com/ornithedex/server/internal/observability"
)

// Rendition parameters. The thumbnail settings are fixed regardless of
// the primary quality requested by the caller.
const (
	DefaultMaxDim    = 800
	DefaultQuality   = 85
	ThumbnailMaxDim  = 200
	ThumbnailQuality = 75

	defaultHeader = "data:image/jpeg;base64,"
)

// CompressionResult is the codec output. Degraded marks a payload the
// codec could not decode or re-encode: Primary then carries the original
// input verbatim, Thumbnail is empty and Size is zero. A degraded result
// is a legitimate state, not an error.
type CompressionResult struct {
	Primary   string
	Thumbnail string
	Size      int64
	Degraded  bool
	Reason    error
}

// ImageCodec turns an arbitrarily sized uploaded image into a bounded
// primary rendition and a small thumbnail, both JPEG re-encoded
type ImageCodec struct {
	maxDim  int
	quality int
}

// NewImageCodec creates a codec with the default bounding box and quality
func NewImageCodec() *ImageCodec {
	return &ImageCodec{maxDim: DefaultMaxDim, quality: DefaultQuality}
}

// NewImageCodecWith creates a codec with a custom primary bounding box and quality
func NewImageCodecWith(maxDim, quality int) *ImageCodec {
	if maxDim <= 0 {
		maxDim = DefaultMaxDim
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &ImageCodec{maxDim: maxDim, quality: quality}
}

// Compress decodes a base64 image (with or without a data-URI header),
// flattens transparency onto white, and produces the two renditions.
// Empty or undecodable base64 input is an error; any failure past that
// point yields a degraded result instead.
func (c *ImageCodec) Compress(input string) (*CompressionResult, error) {
	if input == "" {
		return nil, ErrEmptyImage
	}

	header := defaultHeader
	payload := input
	if idx := strings.Index(input, ","); idx >= 0 {
		header = input[:idx+1]
		payload = input[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidEncoding
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		// HEIC payloads are not registered with image.Decode
		if heic, heicErr := goheif.Decode(bytes.NewReader(raw)); heicErr == nil {
			img = heic
		} else {
			observability.Warnf("image decode failed, storing original payload: %v", err)
			return degradedResult(input, err), nil
		}
	}

	img = flattenAlpha(img)

	primary, size, err := c.encode(img, c.maxDim, c.quality, header)
	if err != nil {
		observability.Warnf("primary encode failed, storing original payload: %v", err)
		return degradedResult(input, err), nil
	}

	thumbnail, _, err := c.encode(img, ThumbnailMaxDim, ThumbnailQuality, header)
	if err != nil {
		observability.Warnf("thumbnail encode failed, storing original payload: %v", err)
		return degradedResult(input, err), nil
	}

	return &CompressionResult{
		Primary:   primary,
		Thumbnail: thumbnail,
		Size:      size,
	}, nil
}

// encode downscales (never upscales) to fit maxDim and re-encodes as JPEG
func (c *ImageCodec) encode(img image.Image, maxDim, quality int, header string) (string, int64, error) {
	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return "", 0, err
	}

	return header + base64.StdEncoding.EncodeToString(buf.Bytes()), int64(buf.Len()), nil
}

// flattenAlpha composites transparent or palette images onto an opaque
// white background. Fully opaque modes pass through unchanged.
func flattenAlpha(img image.Image) image.Image {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64, *image.Paletted:
		bounds := img.Bounds()
		bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
		return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
	default:
		return img
	}
}

func degradedResult(input string, reason error) *CompressionResult {
	primary := input
	if !strings.Contains(input, ",") {
		primary = defaultHeader + input
	}
	return &CompressionResult{
		Primary:  primary,
		Degraded: true,
		Reason:   reason,
	}
}

// Codec errors
type CodecError struct {
	Message string
}

func (e CodecError) Error() string {
	return e.Message
}

var (
	ErrEmptyImage      = CodecError{"empty image payload"}
	ErrInvalidEncoding = CodecError{"image payload is not valid base64"}
)
