// Package service wires ingestion, cohort aggregation and the report store
// into the operations served by the HTTP API and the CLI.
package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/devbracket/internal/adapters/ingest"
	"github.com/okian/devbracket/internal/adapters/repository"
	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/cohort"
	"github.com/okian/devbracket/internal/domain/development"
	"github.com/okian/devbracket/internal/domain/instance"
	"github.com/okian/devbracket/internal/domain/scoring"
	"github.com/okian/devbracket/pkg/logger"
	"github.com/okian/devbracket/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultMaxTests       = 4
	defaultWindows        = 2
	defaultRegionMaxTests = 3
	defaultMaxUploadBytes = 32 << 20
	defaultCacheSize      = 64
)

// Upload is a dataset submitted for analysis.
type Upload struct {
	Name   string
	Format ingest.Format
	Body   io.Reader
}

// Result is the outcome of Analyze.
type Result struct {
	Record    repository.Record
	Duplicate bool
}

// Service implements the API dependencies for the bracketing system.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog    *catalog.Catalog
	reader     *ingest.Reader
	aggregator *cohort.Aggregator
	store      repository.Store

	// Configuration
	workerCount    int
	maxTests       int
	windows        int
	regionMaxTests int
	minDays        int
	maxUploadBytes int64
	cacheSize      int
	goalStandards  map[string]map[string]map[string]float64

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:        catalog.Default(),
		workerCount:    runtime.NumCPU(),
		maxTests:       defaultMaxTests,
		windows:        defaultWindows,
		regionMaxTests: defaultRegionMaxTests,
		maxUploadBytes: defaultMaxUploadBytes,
		cacheSize:      defaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the pipeline components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.reader = ingest.NewReader(ingest.WithLogger(s.logger.Named("ingest")))
	scorer := scoring.NewGoalStandardScorer(scoring.WithStandardsFromConfig(s.goalStandards))
	s.aggregator = cohort.New(
		instance.NewBuilder(s.catalog, instance.WithMinDaysBetweenTests(s.minDays)),
		development.NewClassifier(scorer),
		cohort.WithMaxTests(s.maxTests),
		cohort.WithWindows(s.windows),
		cohort.WithRegionMaxTests(s.regionMaxTests),
		cohort.WithWorkers(s.workerCount),
		cohort.WithLogger(s.logger.Named("cohort")),
	)
	s.store = repository.NewMemoryStore(repository.WithMaxReports(s.cacheSize))
	metrics.UpdateWorkerCount(s.workerCount)

	s.started = true
	s.logger.Info(ctx, "bracketing service started",
		logger.Int("workers", s.workerCount),
		logger.Int("maxTests", s.maxTests),
		logger.Int("windows", s.windows),
		logger.Int("movements", s.catalog.Len()),
	)
	return nil
}

// Stop marks the service stopped. Stored reports are dropped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.store = nil
	s.started = false
	metrics.UpdateReportsStored(0)
	s.logger.Info(context.Background(), "bracketing service stopped")
}

func (s *Service) components() (*ingest.Reader, *cohort.Aggregator, repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.reader, s.aggregator, s.store, nil
}

// Analyze reads a dataset, builds its cohort report and stores it. A dataset
// with the same bytes as a stored one returns the stored report with
// Duplicate set.
func (s *Service) Analyze(ctx context.Context, up Upload) (Result, error) {
	reader, agg, store, err := s.components()
	if err != nil {
		return Result{}, err
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxUploadBytes+1))
	if err != nil {
		return Result{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return Result{}, fmt.Errorf("%w: limit %d bytes", ErrDatasetTooLarge, s.maxUploadBytes)
	}
	if len(data) == 0 {
		return Result{}, ErrEmptyUpload
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	if rec, err := store.Lookup(ctx, digest); err == nil {
		metrics.RecordReportDuplicate()
		s.logger.Info(ctx, "dataset already analyzed", logger.String("report_id", rec.ID))
		return Result{Record: rec, Duplicate: true}, nil
	}

	obs, err := reader.Read(ctx, bytes.NewReader(data), up.Format)
	if err != nil {
		metrics.RecordIngestError()
		return Result{}, err
	}
	metrics.RecordObservationsIngested(len(obs))

	start := time.Now()
	report, err := agg.Aggregate(ctx, obs)
	if err != nil {
		return Result{}, err
	}
	latency := time.Since(start)
	recordReportMetrics(report, latency)

	rec, dup, err := store.Put(ctx, repository.Record{
		ID:        uuid.NewString(),
		Digest:    digest,
		Name:      up.Name,
		CreatedAt: time.Now().UTC(),
		Report:    report,
	})
	if err != nil {
		return Result{}, fmt.Errorf("store report: %w", err)
	}
	if dup {
		metrics.RecordReportDuplicate()
	}

	s.logger.Info(ctx, "report built",
		logger.String("report_id", rec.ID),
		logger.String("name", up.Name),
		logger.Int("observations", len(obs)),
		logger.Int("users", report.Users.Total),
		logger.Float64("latencyMs", float64(latency.Microseconds())/1000),
	)
	return Result{Record: rec, Duplicate: dup}, nil
}

func recordReportMetrics(r *cohort.Report, latency time.Duration) {
	metrics.RecordObservationsDropped(metrics.DropIncomplete, r.Rows.Incomplete)
	metrics.RecordObservationsDropped(metrics.DropUnknown, r.Rows.Unknown)
	metrics.RecordObservationsDropped(metrics.DropTooSoon, r.Rows.TooSoon)

	outcomes := []struct {
		label string
		n     int
	}{
		{metrics.UserExcluded, r.Users.Excluded},
		{metrics.UserEmpty, r.Users.Empty},
		{metrics.UserSingleTest, r.Users.SingleTest},
		{metrics.UserMultiTest, r.Users.MultiTest},
	}
	for _, o := range outcomes {
		for i := 0; i < o.n; i++ {
			metrics.RecordUserOutcome(o.label)
		}
	}
	metrics.RecordReportBuilt(float64(latency.Microseconds()) / 1000)
}

// Report returns a stored report by ID.
func (s *Service) Report(ctx context.Context, id string) (repository.Record, error) {
	_, _, store, err := s.components()
	if err != nil {
		return repository.Record{}, err
	}
	return store.Get(ctx, id)
}

// User returns one user's individual analysis from a stored report.
func (s *Service) User(ctx context.Context, reportID, userID string) (*cohort.UserReport, error) {
	rec, err := s.Report(ctx, reportID)
	if err != nil {
		return nil, err
	}
	u, ok := rec.Report.User(userID)
	if !ok {
		return nil, fmt.Errorf("%w: user %s", repository.ErrNotFound, userID)
	}
	return u, nil
}

// Reports lists stored reports, newest first.
func (s *Service) Reports(ctx context.Context) ([]repository.Record, error) {
	_, _, store, err := s.components()
	if err != nil {
		return nil, err
	}
	return store.List(ctx), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":             s.started,
		"workerCount":         s.workerCount,
		"maxTests":            s.maxTests,
		"transitionWindows":   s.windows,
		"regionMaxTests":      s.regionMaxTests,
		"minDaysBetweenTests": s.minDays,
		"maxUploadBytes":      s.maxUploadBytes,
		"reportCacheSize":     s.cacheSize,
		"movements":           s.catalog.Len(),
	}
	if s.started {
		n := s.store.Count(context.Background())
		stats["reportsStored"] = n
		metrics.UpdateReportsStored(n)
	}
	return stats
}
