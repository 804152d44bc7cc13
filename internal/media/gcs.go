package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/abgdnv/storefront/pkg/config"
	"github.com/google/uuid"
)

// GCSImageStore uploads product images to a publicly readable Cloud Storage bucket.
type GCSImageStore struct {
	client  *storage.Client
	bucket  string
	prefix  string
	baseURL string
}

func NewGCSImageStore(client *storage.Client, cfg config.StorageConfig) *GCSImageStore {
	return &GCSImageStore{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

func (s *GCSImageStore) Upload(ctx context.Context, img *Image) (string, error) {
	obj := s.objectPath(uuid.NewString() + extensionFor(img.ContentType))
	w := s.client.Bucket(s.bucket).Object(obj).NewWriter(ctx)
	w.ContentType = img.ContentType
	w.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := w.Write(img.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload image %s: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload image %s: %w", obj, err)
	}
	return s.publicURL(obj), nil
}

func (s *GCSImageStore) Delete(ctx context.Context, rawURL string) error {
	obj, ok := s.objectFromURL(rawURL)
	if !ok {
		return nil
	}
	err := s.client.Bucket(s.bucket).Object(obj).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete image %s: %w", obj, err)
	}
	return nil
}

func (s *GCSImageStore) objectPath(name string) string {
	return path.Join(s.prefix, "products", name)
}

func (s *GCSImageStore) publicURL(obj string) string {
	parts := strings.Split(obj, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return s.baseURL + "/" + s.bucket + "/" + strings.Join(parts, "/")
}

// objectFromURL maps a URL produced by publicURL back to its object path.
func (s *GCSImageStore) objectFromURL(rawURL string) (string, bool) {
	rest, ok := strings.CutPrefix(rawURL, s.baseURL+"/"+s.bucket+"/")
	if !ok || rest == "" {
		return "", false
	}
	obj, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	return obj, true
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
