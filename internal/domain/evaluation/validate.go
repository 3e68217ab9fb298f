package evaluation

import (
	"fmt"
	"strings"
)

// ValidateBatch checks the upload policy and the descriptor fields.
// The generator itself assumes well-formed input.
func ValidateBatch(images []ImageDescriptor) error {
	if len(images) > MaxBatchSize {
		return fmt.Errorf("%w: %d images in batch, at most %d allowed", ErrInvalidArgument, len(images), MaxBatchSize)
	}
	for i, img := range images {
		if err := img.Validate(); err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks that name, size and url are present.
func (d ImageDescriptor) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	case d.Size < 0:
		return fmt.Errorf("%w: size must not be negative", ErrInvalidArgument)
	case strings.TrimSpace(d.URL) == "":
		return fmt.Errorf("%w: url is required", ErrInvalidArgument)
	}
	return nil
}
