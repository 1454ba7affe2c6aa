// server/internal/media/media.go

// Package media uploads camp and profile images to the configured provider.
package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"medcamp-api-server/config"
	"medcamp-api-server/internal/s3"
)

const uploadTimeout = 60 * time.Second

// Uploader stores an image and returns the URL clients should reference.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename, contentType string) (string, error)
}

// New returns the uploader selected by cfg.Media.Provider, or nil when image
// uploads are disabled.
func New(ctx context.Context, cfg config.Config) (Uploader, error) {
	switch cfg.Media.Provider {
	case "":
		return nil, nil
	case "s3":
		return s3.NewUploader(ctx, cfg.S3)
	case "cloudinary":
		return NewCloudinaryUploader(cfg.Cloudinary)
	}
	return nil, fmt.Errorf("unknown media provider %q", cfg.Media.Provider)
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: cfg.Folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, _ string, _ string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload error: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}
