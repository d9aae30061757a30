package services

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestJPEG(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func encodeTransparentPNG(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 50, B: 50, A: 0})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeResult(t *testing.T, payload string) image.Image {
	t.Helper()

	idx := strings.Index(payload, ",")
	require.GreaterOrEqual(t, idx, 0)

	raw, err := base64.StdEncoding.DecodeString(payload[idx+1:])
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestImageCodecCompress(t *testing.T) {
	codec := NewImageCodec()

	t.Run("downscales oversized image", func(t *testing.T) {
		result, err := codec.Compress(encodeTestJPEG(t, 1200, 900))
		require.NoError(t, err)
		assert.False(t, result.Degraded)

		primary := decodeResult(t, result.Primary)
		assert.LessOrEqual(t, primary.Bounds().Dx(), 800)
		assert.LessOrEqual(t, primary.Bounds().Dy(), 800)

		thumb := decodeResult(t, result.Thumbnail)
		assert.LessOrEqual(t, thumb.Bounds().Dx(), 200)
		assert.LessOrEqual(t, thumb.Bounds().Dy(), 200)

		assert.Greater(t, result.Size, int64(0))
	})

	t.Run("preserves aspect ratio", func(t *testing.T) {
		result, err := codec.Compress(encodeTestJPEG(t, 1600, 800))
		require.NoError(t, err)

		primary := decodeResult(t, result.Primary)
		assert.Equal(t, 800, primary.Bounds().Dx())
		assert.Equal(t, 400, primary.Bounds().Dy())
	})

	t.Run("never upscales", func(t *testing.T) {
		result, err := codec.Compress(encodeTestJPEG(t, 300, 200))
		require.NoError(t, err)

		primary := decodeResult(t, result.Primary)
		assert.Equal(t, 300, primary.Bounds().Dx())
		assert.Equal(t, 200, primary.Bounds().Dy())
	})

	t.Run("flattens transparency onto white", func(t *testing.T) {
		result, err := codec.Compress(encodeTransparentPNG(t, 100, 100))
		require.NoError(t, err)
		assert.False(t, result.Degraded)

		// Fully transparent pixels must come out white, not black
		primary := decodeResult(t, result.Primary)
		r, g, b, _ := primary.At(50, 50).RGBA()
		assert.Greater(t, r>>8, uint32(240))
		assert.Greater(t, g>>8, uint32(240))
		assert.Greater(t, b>>8, uint32(240))
	})

	t.Run("keeps the submitted data-URI header", func(t *testing.T) {
		result, err := codec.Compress(encodeTransparentPNG(t, 10, 10))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.Primary, "data:image/png;base64,"))
		assert.True(t, strings.HasPrefix(result.Thumbnail, "data:image/png;base64,"))
	})

	t.Run("accepts headerless base64", func(t *testing.T) {
		full := encodeTestJPEG(t, 50, 50)
		bare := full[strings.Index(full, ",")+1:]

		result, err := codec.Compress(bare)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.Primary, "data:image/jpeg;base64,"))
	})

	t.Run("empty input is an error", func(t *testing.T) {
		_, err := codec.Compress("")
		assert.ErrorIs(t, err, ErrEmptyImage)
	})

	t.Run("invalid base64 is an error", func(t *testing.T) {
		_, err := codec.Compress("data:image/jpeg;base64,!!!not-base64!!!")
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("undecodable image degrades instead of failing", func(t *testing.T) {
		garbage := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("not an image at all"))

		result, err := codec.Compress(garbage)
		require.NoError(t, err)
		assert.True(t, result.Degraded)
		assert.Equal(t, garbage, result.Primary)
		assert.Empty(t, result.Thumbnail)
		assert.Zero(t, result.Size)
		assert.Error(t, result.Reason)
	})

	t.Run("custom bounding box", func(t *testing.T) {
		small := NewImageCodecWith(400, 70)

		result, err := small.Compress(encodeTestJPEG(t, 1000, 1000))
		require.NoError(t, err)

		primary := decodeResult(t, result.Primary)
		assert.LessOrEqual(t, primary.Bounds().Dx(), 400)
	})
}
