package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voltcurve/evsessions/internal/adapter/fourtu"
	"github.com/voltcurve/evsessions/internal/config"
	"github.com/voltcurve/evsessions/internal/domain"
	"github.com/voltcurve/evsessions/internal/frame"
	"github.com/voltcurve/evsessions/internal/observability"
)

// asrLoader obtains the office-parking dataset published on the 4TU research
// data portal. The source is a ZIP archive containing one semicolon-delimited
// CSV whose columns already carry the canonical names.
type asrLoader struct {
	cfg     *config.Config
	client  *fourtu.Client
	logger  *slog.Logger
	metrics *observability.Metrics

	rawPath       string
	formattedPath string
}

func newASRLoader(cfg *config.Config, client *fourtu.Client, logger *slog.Logger, metrics *observability.Metrics, rawPath, formattedPath string) *asrLoader {
	return &asrLoader{
		cfg:           cfg,
		client:        client,
		logger:        logger.With("dataset", "ASR"),
		metrics:       metrics,
		rawPath:       rawPath,
		formattedPath: formattedPath,
	}
}

func (l *asrLoader) DatasetID() string { return "ASR" }

func (l *asrLoader) Source() string { return "4tu-archive" }

// Fetch downloads the archive and extracts the dataset member into the raw
// cache. A present raw file short-circuits the download unless force is set.
func (l *asrLoader) Fetch(ctx context.Context, force bool) error {
	if !force && fileExists(l.rawPath) {
		l.logger.Info("raw file present, skipping download", "path", l.rawPath)
		return nil
	}

	l.metrics.FetchRunning.Set(1)
	defer l.metrics.FetchRunning.Set(0)

	start := time.Now()
	if err := l.client.DownloadMember(ctx, l.cfg.ASRURL, l.cfg.ASRArchiveMember, l.rawPath); err != nil {
		l.metrics.FetchErrors.Inc()
		return err
	}
	l.metrics.ArchiveDownloadDuration.Observe(time.Since(start).Seconds())
	l.logger.Info("downloaded archive member", "member", l.cfg.ASRArchiveMember, "elapsed", time.Since(start))
	return nil
}

// Normalize reads the semicolon-delimited raw file, keeps the four canonical
// columns, coerces the cells onto the canonical types, and writes the result
// as a comma-delimited formatted file.
func (l *asrLoader) Normalize(ctx context.Context) error {
	raw, err := frame.ReadFile(l.rawPath, ';')
	if err != nil {
		return fmt.Errorf("read raw cache: %w", err)
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if !raw.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &domain.SchemaError{Missing: missing}
	}

	sel, err := raw.Select(domain.RequiredColumns...)
	if err != nil {
		return err
	}
	formatted, err := domain.Validate(sel)
	if err != nil {
		return err
	}

	if err := formatted.WriteFile(l.formattedPath, ','); err != nil {
		return fmt.Errorf("persist formatted file: %w", err)
	}
	l.logger.Info("normalized dataset", "rows", formatted.NumRows())
	return nil
}
