package middleware

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/image-evaluator/internal/domain/evaluation"
)

// Input validation and sanitization utilities

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ValidateImageFile accepts JPG, JPEG and PNG uploads up to maxBytes (0 = unlimited)
func ValidateImageFile(name, contentType string, size, maxBytes int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: file name cannot be empty", domain.ErrInvalidArgument)
	}
	ext := strings.ToLower(filepath.Ext(name))
	want, ok := allowedImageTypes[ext]
	if !ok {
		return fmt.Errorf("%w: unsupported image type %q (allowed: jpg, jpeg, png)", domain.ErrInvalidArgument, ext)
	}
	if ct := strings.ToLower(strings.TrimSpace(contentType)); ct != "" && ct != "application/octet-stream" && ct != want {
		return fmt.Errorf("%w: content type %q does not match %s", domain.ErrInvalidArgument, contentType, ext)
	}
	if size < 0 {
		return fmt.Errorf("%w: negative size", domain.ErrInvalidArgument)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrInvalidArgument, name, size, maxBytes)
	}
	return nil
}

// ValidateBatchID checks the batch id is a UUID
func ValidateBatchID(id string) (domain.BatchID, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: invalid batch id", domain.ErrInvalidArgument)
	}
	return domain.BatchID(id), nil
}

// ValidateRecordID parses a zero-based record id
func ValidateRecordID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: invalid record id %q", domain.ErrInvalidArgument, raw)
	}
	return id, nil
}

// ValidateStatusParam reads the status query value, empty meaning all
func ValidateStatusParam(raw string) (domain.StatusFilter, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.FilterAll, nil
	}
	return domain.ParseStatusFilter(raw)
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
