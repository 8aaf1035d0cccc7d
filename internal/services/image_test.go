package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"hseinspect/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 7 {
		img.Set(x, x%height, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageService_FitsLargeImages(t *testing.T) {
	service := NewImageService()

	processed, err := service.Process(context.Background(), encodePNG(t, 3200, 800))

	require.NoError(t, err)
	assert.Equal(t, "image/webp", processed.ContentType)
	assert.Equal(t, 1600, processed.Width)
	assert.Equal(t, 400, processed.Height)
	assert.NotEmpty(t, processed.Data)
}

func TestImageService_KeepsSmallImages(t *testing.T) {
	processed, err := NewImageService().Process(context.Background(), encodePNG(t, 640, 480))

	require.NoError(t, err)
	assert.Equal(t, 640, processed.Width)
	assert.Equal(t, 480, processed.Height)
}

func TestImageService_RejectsBadInput(t *testing.T) {
	service := NewImageService()

	_, err := service.Process(context.Background(), []byte("GIF89a not really"))
	assert.Equal(t, apperrors.KindUnsupportedMedia, apperrors.Classify(err))

	_, err = service.Process(context.Background(), nil)
	assert.Equal(t, apperrors.KindValidation, apperrors.Classify(err))

	_, err = service.Process(context.Background(), make([]byte, MaxImageBytes+1))
	assert.Equal(t, apperrors.KindTooLarge, apperrors.Classify(err))
}
