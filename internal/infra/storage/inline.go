package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bryanwahyu/image-evaluator/internal/domain/evaluation"
)

// InlineStore turns an upload into a data URL, the way a browser FileReader does.
// Nothing is kept server-side.
type InlineStore struct {
	// MaxBytes caps a single image; zero means no cap.
	MaxBytes int64
}

// Put implements evaluation.ImageStore
func (s InlineStore) Put(_ context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if s.MaxBytes > 0 && size > s.MaxBytes {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d", evaluation.ErrInvalidArgument, key, size, s.MaxBytes)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = ContentTypeFor(key)
	}
	src := r
	if s.MaxBytes > 0 {
		src = io.LimitReader(r, s.MaxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", evaluation.ErrInvalidArgument, key, s.MaxBytes)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ContentTypeFor maps an image file name to its MIME type.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
