package evaluation

import (
	"context"
	"io"
)

// Sampler is the randomness seam of the generator. *rand.Rand satisfies it.
type Sampler interface {
	Float64() float64
	Intn(n int) int
}

// Narrative is the descriptive content attached to a record.
type Narrative struct {
	// Praise and Improve are the two recommendation texts; the generator picks one by score.
	Praise  string
	Improve string

	RealTimeAnalysis   string
	HistoricalAnalysis string
	RegionalAnalysis   map[Region]RegionalInsight
	Metadata           map[string]string
}

// ContentProvider supplies narrative content for an image.
// The built-in catalog ignores the image; a real analyzer would not.
type ContentProvider interface {
	Narrate(img ImageDescriptor) Narrative
}

// ImageStore port (interface untuk penyimpanan gambar)
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

// BatchStore holds generated batches while the results view is open.
type BatchStore interface {
	Put(ctx context.Context, b *Batch) error
	Get(ctx context.Context, owner string, id BatchID) (*Batch, error)
	Delete(ctx context.Context, owner string, id BatchID) error
}
