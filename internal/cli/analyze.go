package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/image-evaluator/internal/application"
	appeval "github.com/bryanwahyu/image-evaluator/internal/application/evaluation"
	domain "github.com/bryanwahyu/image-evaluator/internal/domain/evaluation"
	"github.com/bryanwahyu/image-evaluator/internal/infra/batchstore"
	"github.com/bryanwahyu/image-evaluator/internal/infra/content"
	"github.com/bryanwahyu/image-evaluator/internal/infra/random"
	"github.com/bryanwahyu/image-evaluator/internal/infra/storage"
	"github.com/bryanwahyu/image-evaluator/internal/logger"
	"github.com/bryanwahyu/image-evaluator/internal/middleware"
)

const cliOwner = "evalctl"

type analyzeOptions struct {
	seed     int64
	catalog  string
	status   string
	delay    time.Duration
	withURLs bool
	verbose  bool
}

// analyzeOutput is what evalctl analyze prints.
type analyzeOutput struct {
	Status  domain.StatusFilter     `json:"status"`
	Dropped []string                `json:"dropped,omitempty"`
	Counts  domain.StatusCounts     `json:"counts"`
	Records []domain.AnalysisRecord `json:"records"`
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Generate mock analysis records for up to 5 images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed (0 = seed from clock)")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "Path to a narrative catalog YAML (default: built-in)")
	cmd.Flags().StringVar(&opts.status, "status", "all", "Show only records with this status: all, excellent, good, warning")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "Simulated analysis time")
	cmd.Flags().BoolVar(&opts.withURLs, "urls", false, "Include the data URL of each image in the output")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging to stderr")
	return cmd
}

func runAnalyze(ctx context.Context, out io.Writer, opts *analyzeOptions, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	status, err := domain.ParseStatusFilter(opts.status)
	if err != nil {
		return err
	}

	catalog := content.Default()
	if opts.catalog != "" {
		if catalog, err = content.Load(opts.catalog); err != nil {
			return err
		}
	}

	log := zap.NewNop()
	if opts.verbose {
		if log, err = logger.New(logger.Config{
			Environment: "development",
			LogLevel:    "debug",
			ServiceName: "evalctl",
			OutputPaths: []string{"stderr"},
		}); err != nil {
			return err
		}
		defer log.Sync()
	}

	taken, dropped := paths, []string(nil)
	if len(paths) > domain.MaxBatchSize {
		taken, dropped = paths[:domain.MaxBatchSize], paths[domain.MaxBatchSize:]
	}
	files := make([]appeval.UploadFile, 0, len(taken))
	for _, p := range taken {
		f, err := localFile(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	clock := application.SystemClock{}
	svc := &appeval.Service{
		Generator: domain.NewGenerator(random.New(opts.seed), catalog),
		Images:    storage.InlineStore{},
		Batches:   batchstore.NewMemory(0, clock),
		Clock:     clock,
		Delay:     opts.delay,
		Log:       log,
	}

	uploaded, err := svc.Upload(ctx, cliOwner, files)
	if err != nil {
		return err
	}
	analyzed, err := svc.Analyze(ctx, cliOwner, uploaded.Images)
	if err != nil {
		return err
	}
	view, err := svc.Results(ctx, cliOwner, analyzed.BatchID, status)
	if err != nil {
		return err
	}

	records := view.Records
	if !opts.withURLs {
		records = withoutURLs(records)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(analyzeOutput{
		Status:  status,
		Dropped: dropped,
		Counts:  view.Counts,
		Records: records,
	})
}

// withoutURLs returns a copy of records with the image URLs blanked.
// The held batch may share the input slice, so it is never written to.
func withoutURLs(records []domain.AnalysisRecord) []domain.AnalysisRecord {
	out := slices.Clone(records)
	for i := range out {
		out[i].URL = ""
	}
	return out
}

func localFile(path string) (appeval.UploadFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return appeval.UploadFile{}, err
	}
	if info.IsDir() {
		return appeval.UploadFile{}, fmt.Errorf("%s is a directory", path)
	}
	name := filepath.Base(path)
	contentType := storage.ContentTypeFor(name)
	if err := middleware.ValidateImageFile(name, contentType, info.Size(), 0); err != nil {
		return appeval.UploadFile{}, err
	}
	return appeval.UploadFile{
		Name:        name,
		Size:        info.Size(),
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
