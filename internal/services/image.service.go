package services

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"strings"

	"hseinspect/internal/apperrors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	MaxImageBytes     = 10 << 20
	MaxImageDimension = 1600
	webpQuality       = 80
)

var (
	ErrImageTooLarge    = apperrors.New(apperrors.KindTooLarge, "Image exceeds the 10MB limit")
	ErrImageUnsupported = apperrors.New(apperrors.KindUnsupportedMedia, "Unsupported image format, use jpg, png or webp")
	ErrImageEmpty       = apperrors.Validation("Image is empty", "file")
)

type ProcessedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// ImageService normalises uploaded photos: decoded, fitted within
// MaxImageDimension and re-encoded as webp.
type ImageService struct {
	log logger.Logger
}

func NewImageService() *ImageService {
	return &ImageService{log: logger.New("imageService")}
}

func (s *ImageService) Process(ctx context.Context, data []byte) (*ProcessedImage, error) {
	log := s.log.TraceFromContext(ctx).Function("Process")

	if len(data) == 0 {
		return nil, ErrImageEmpty
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	img, err := decodeImage(data)
	if err != nil {
		log.Warn("rejected image upload", "error", err, "size", len(data))
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxImageDimension || bounds.Dy() > MaxImageDimension {
		img = imaging.Fit(img, MaxImageDimension, MaxImageDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, log.Err("failed to encode webp", err)
	}

	bounds = img.Bounds()
	return &ProcessedImage{
		Data:        buf.Bytes(),
		ContentType: "image/webp",
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

func decodeImage(data []byte) (image.Image, error) {
	contentType := http.DetectContentType(data)

	var (
		img image.Image
		err error
	)
	switch {
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "png"):
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	case strings.Contains(contentType, "webp"):
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, ErrImageUnsupported
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnsupportedMedia, ErrImageUnsupported.Message, err)
	}
	return img, nil
}
