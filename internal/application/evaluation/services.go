package evaluation

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/image-evaluator/internal/application"
	domain "github.com/bryanwahyu/image-evaluator/internal/domain/evaluation"
	"github.com/bryanwahyu/image-evaluator/internal/metrics"
)

// Service implements the upload → analyze → results use-cases.
// Service is safe for concurrent use as long as its ports are.
type Service struct {
	Generator *domain.Generator
	Images    domain.ImageStore
	Batches   domain.BatchStore
	Clock     application.Clock
	// Delay simulates the analysis time before results are shown.
	Delay time.Duration
	Log   *zap.Logger
}

//
// ==== USE CASES ====
//

// UploadFile is one file picked by the user.
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type UploadResult struct {
	Images      []domain.ImageDescriptor `json:"images"`
	Count       int                      `json:"count"`
	TotalSizeMB string                   `json:"total_size_mb"`
	Dropped     int                      `json:"dropped"`
}

type AnalyzeResult struct {
	BatchID   domain.BatchID          `json:"batch_id"`
	CreatedAt time.Time               `json:"created_at"`
	Records   []domain.AnalysisRecord `json:"records"`
	Counts    domain.StatusCounts     `json:"counts"`
}

type ResultsView struct {
	BatchID domain.BatchID          `json:"batch_id"`
	Status  domain.StatusFilter     `json:"status"`
	Records []domain.AnalysisRecord `json:"records"`
	Counts  domain.StatusCounts     `json:"counts"`
}

// Upload stores the picked files and describes them. Only the first
// MaxBatchSize files are taken, the rest are reported as dropped.
func (s *Service) Upload(ctx context.Context, owner string, files []UploadFile) (UploadResult, error) {
	dropped := 0
	if len(files) > domain.MaxBatchSize {
		dropped = len(files) - domain.MaxBatchSize
		files = files[:domain.MaxBatchSize]
	}

	images := make([]domain.ImageDescriptor, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := s.store(gctx, owner, f)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			images[i] = domain.ImageDescriptor{Name: f.Name, Size: f.Size, URL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger().Warn("upload failed", zap.String("owner", owner), zap.Error(err))
		return UploadResult{}, err
	}
	metrics.ImagesUploadedTotal.Add(float64(len(images)))

	var total int64
	for _, img := range images {
		total += img.Size
	}
	return UploadResult{
		Images:      images,
		Count:       len(images),
		TotalSizeMB: fmt.Sprintf("%.2f", float64(total)/1024/1024),
		Dropped:     dropped,
	}, nil
}

func (s *Service) store(ctx context.Context, owner string, f UploadFile) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	key := fmt.Sprintf("%s/%s/%s", owner, uuid.New().String(), filepath.Base(f.Name))
	return s.Images.Put(ctx, key, f.ContentType, rc, f.Size)
}

// Analyze waits the simulated delay, generates the mock analysis and holds
// the batch for the results view. A cancelled ctx aborts before generation.
func (s *Service) Analyze(ctx context.Context, owner string, images []domain.ImageDescriptor) (AnalyzeResult, error) {
	if err := domain.ValidateBatch(images); err != nil {
		metrics.AnalysesTotal.WithLabelValues("invalid").Inc()
		return AnalyzeResult{}, err
	}

	if err := s.wait(ctx); err != nil {
		metrics.AnalysesTotal.WithLabelValues("cancelled").Inc()
		return AnalyzeResult{}, err
	}

	records := s.Generator.Generate(images)
	batch := &domain.Batch{
		ID:        domain.BatchID(uuid.New().String()),
		OwnerID:   owner,
		CreatedAt: s.Clock.Now(),
		Records:   records,
	}
	if err := s.Batches.Put(ctx, batch); err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return AnalyzeResult{}, err
	}

	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	for _, r := range records {
		metrics.ImagesAnalyzedTotal.WithLabelValues(string(r.Status)).Inc()
	}
	counts := domain.CountByStatus(records)
	s.logger().Info("batch analyzed",
		zap.String("owner", owner),
		zap.String("batch_id", string(batch.ID)),
		zap.Int("images", counts.All),
		zap.Int("excellent", counts.Excellent),
		zap.Int("good", counts.Good),
		zap.Int("warning", counts.Warning),
	)

	return AnalyzeResult{
		BatchID:   batch.ID,
		CreatedAt: batch.CreatedAt,
		Records:   records,
		Counts:    counts,
	}, nil
}

// Results returns the batch filtered by status, with counts over the whole batch.
func (s *Service) Results(ctx context.Context, owner string, id domain.BatchID, status domain.StatusFilter) (ResultsView, error) {
	batch, err := s.Batches.Get(ctx, owner, id)
	if err != nil {
		return ResultsView{}, err
	}
	records, err := domain.FilterByStatus(batch.Records, status)
	if err != nil {
		return ResultsView{}, err
	}
	return ResultsView{
		BatchID: batch.ID,
		Status:  status,
		Records: records,
		Counts:  domain.CountByStatus(batch.Records),
	}, nil
}

// Record returns one record of a batch for the detail view.
func (s *Service) Record(ctx context.Context, owner string, id domain.BatchID, recordID int) (domain.AnalysisRecord, error) {
	batch, err := s.Batches.Get(ctx, owner, id)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}
	return domain.Lookup(batch.Records, recordID)
}

// Discard drops a batch once the user leaves the results view.
func (s *Service) Discard(ctx context.Context, owner string, id domain.BatchID) error {
	return s.Batches.Delete(ctx, owner, id)
}

func (s *Service) wait(ctx context.Context) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
