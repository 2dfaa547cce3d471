package core

import (
	"context"
	"time"
)

// Logger is the minimal logging contract the service depends on. The zap
// adapter in cmd satisfies it in production; tests use nopLogger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Service exposes the five sample operations over a SampleStore. It owns
// input validation and per-operation observability; everything else is
// delegated to the store. The service holds no per-request state.
type Service struct {
	store   SampleStore
	logger  Logger
	metrics MetricsRecorder
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithLogger overrides the default no-op logger.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder attaches an operation metrics recorder.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Service) {
		s.metrics = rec
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store SampleStore, opts ...Option) *Service {
	s := &Service{store: store, logger: nopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying storage implementation.
func (s *Service) Store() SampleStore { return s.store }

// ListSamples returns every stored sample.
func (s *Service) ListSamples(ctx context.Context) ([]PlantSample, error) {
	start := time.Now()
	samples, err := s.store.ListSamples(ctx)
	s.observe(ctx, "list_samples", start, err)
	return samples, err
}

// CreateSample validates the payload and inserts a new row, returning the
// store-generated id. Nothing reaches the store when validation fails.
func (s *Service) CreateSample(ctx context.Context, input SampleInput) (int64, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}
	start := time.Now()
	id, err := s.store.CreateSample(ctx, input)
	s.observe(ctx, "create_sample", start, err)
	if err == nil {
		s.logger.Info("sample created", "sample_id", id)
	}
	return id, err
}

// GetSample returns a single sample by id.
func (s *Service) GetSample(ctx context.Context, id int64) (PlantSample, error) {
	start := time.Now()
	sample, err := s.store.GetSample(ctx, id)
	s.observe(ctx, "get_sample", start, err)
	return sample, err
}

// UpdateSample applies a partial update. A patch naming none of the
// recognized columns is rejected before any statement is constructed.
func (s *Service) UpdateSample(ctx context.Context, id int64, patch SamplePatch) error {
	if patch.IsEmpty() {
		return ValidationError{Reason: "No fields to update"}
	}
	start := time.Now()
	err := s.store.UpdateSample(ctx, id, patch)
	s.observe(ctx, "update_sample", start, err)
	if err == nil {
		s.logger.Info("sample updated", "sample_id", id)
	}
	return err
}

// DeleteSample removes a sample by id.
func (s *Service) DeleteSample(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.store.DeleteSample(ctx, id)
	s.observe(ctx, "delete_sample", start, err)
	if err == nil {
		s.logger.Info("sample deleted", "sample_id", id)
	}
	return err
}

func (s *Service) observe(ctx context.Context, operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.Observe(ctx, operation, err == nil, time.Since(start))
}
