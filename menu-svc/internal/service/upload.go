package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	MaxUploadSize  = 5 << 20
	ThumbnailWidth = 400
	ThumbPrefix    = "thumb_"
)

var (
	ErrNoFile        = validation("No file uploaded")
	ErrInvalidType   = validation("Invalid file type")
	ErrFileTooLarge  = validation("File too large")
	ErrCorruptImage  = validation("File is not a valid image")
	allowedMimeTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
)

type UploadResult struct {
	Success      bool   `json:"success"`
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Size         int    `json:"size"`
	Mimetype     string `json:"mimetype"`
}

type UploadServiceInterface interface {
	Upload(ctx context.Context, p Principal, mimetype string, data []byte) (*UploadResult, error)
}

type UploadService struct {
	images    ImageStore
	urlPrefix string
}

// NewUploadService stores images in images and reports them under urlPrefix, e.g. "/uploads/".
func NewUploadService(images ImageStore, urlPrefix string) *UploadService {
	return &UploadService{images: images, urlPrefix: urlPrefix}
}

func (s *UploadService) Upload(ctx context.Context, p Principal, mimetype string, data []byte) (*UploadResult, error) {
	if !p.Authenticated() {
		return nil, ErrTokenRequired
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	ext, ok := allowedMimeTypes[mimetype]
	if !ok {
		return nil, ErrInvalidType
	}

	name := uuid.NewString() + ext
	result := &UploadResult{
		Success:  true,
		Filename: name,
		URL:      s.urlPrefix + name,
		Size:     len(data),
		Mimetype: mimetype,
	}

	// imaging has no webp codec, so webp files are stored without a thumbnail.
	var thumb []byte
	if ext != ".webp" {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, ErrCorruptImage
		}
		format, err := imaging.FormatFromExtension(ext)
		if err != nil {
			return nil, fmt.Errorf("thumbnail format: %w", err)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos), format); err != nil {
			return nil, fmt.Errorf("encode thumbnail: %w", err)
		}
		thumb = buf.Bytes()
	}

	if err := s.images.Put(name, data); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	if thumb != nil {
		if err := s.images.Put(ThumbPrefix+name, thumb); err != nil {
			return nil, fmt.Errorf("save thumbnail: %w", err)
		}
		result.ThumbnailURL = s.urlPrefix + ThumbPrefix + name
	}
	return result, nil
}

var _ UploadServiceInterface = (*UploadService)(nil)
