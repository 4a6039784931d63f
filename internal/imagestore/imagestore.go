package imagestore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStore is the external binary-asset host for post images. Upload takes
// a raw payload (base64 data URI or remote URL) and returns a durable URL.
type ImageStore interface {
	Upload(ctx context.Context, payload string) (string, error)
	Destroy(ctx context.Context, publicID string) error
}

// CloudinaryImageStore implements ImageStore backed by Cloudinary
type CloudinaryImageStore struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryImageStore creates an image store from a cloudinary:// URL
func NewCloudinaryImageStore(cloudinaryURL string) (*CloudinaryImageStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryImageStore{client: cld}, nil
}

// Upload sends the raw image payload to Cloudinary and returns the secure URL
func (s *CloudinaryImageStore) Upload(ctx context.Context, payload string) (string, error) {
	resp, err := s.client.Upload.Upload(ctx, payload, uploader.UploadParams{})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

// Destroy deletes the hosted image identified by its public ID
func (s *CloudinaryImageStore) Destroy(ctx context.Context, publicID string) error {
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// PublicIDFromURL derives the image host's resource key from a stored image
// URL: the final path segment with everything from the first dot stripped.
func PublicIDFromURL(url string) string {
	base := path.Base(url)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}
