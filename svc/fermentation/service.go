package fermentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/winery/pkg/logger"
	"github.com/dmitrymomot/winery/pkg/validator"
)

// Service records batches and samples, running every write through the
// validators. Validation outcomes are returned as validator.Result values;
// the error return is reserved for infrastructure failures.
type Service struct {
	storage      Storage
	orchestrator *Orchestrator
	lifecycle    *LifecycleValidator
	locker       Locker
	metrics      *Metrics
	log          *slog.Logger
	now          func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	log          *slog.Logger
	locker       Locker
	metrics      *Metrics
	now          func() time.Time
	orchestrator []OrchestratorOption
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithLocker replaces the process-local lock, e.g. with redis.Locker.
func WithLocker(l Locker) ServiceOption {
	return func(o *serviceOptions) {
		if l != nil {
			o.locker = l
		}
	}
}

func WithMetrics(m *Metrics) ServiceOption {
	return func(o *serviceOptions) {
		o.metrics = m
	}
}

// WithClock overrides time.Now, used for creation timestamps, the vintage
// year check and completion duration.
func WithClock(now func() time.Time) ServiceOption {
	return func(o *serviceOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithOrchestratorOptions passes options to the sample pipeline.
func WithOrchestratorOptions(opts ...OrchestratorOption) ServiceOption {
	return func(o *serviceOptions) {
		o.orchestrator = append(o.orchestrator, opts...)
	}
}

func NewService(storage Storage, opts ...ServiceOption) *Service {
	o := &serviceOptions{
		log:    logger.Discard(),
		locker: NewMemoryLocker(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Service{
		storage:      storage,
		orchestrator: NewOrchestrator(storage, storage, o.orchestrator...),
		lifecycle:    NewLifecycleValidator(WithLifecycleClock(o.now)),
		locker:       o.locker,
		metrics:      o.metrics,
		log:          o.log.With(logger.Component("fermentation")),
		now:          o.now,
	}
}

// Lifecycle exposes the status validator.
func (s *Service) Lifecycle() *LifecycleValidator {
	return s.lifecycle
}

// CreateFermentation validates data and stores a new batch.
func (s *Service) CreateFermentation(ctx context.Context, data CreationData) (Fermentation, validator.Result, error) {
	res := s.lifecycle.ValidateCreationData(data)
	s.metrics.observe(OpCreateFermentation, res)
	if !res.IsValid() {
		s.log.WarnContext(ctx, "fermentation rejected", logger.RejectedFields(res.Errors.Fields()))
		return Fermentation{}, res, nil
	}

	now := s.now().UTC()
	f := Fermentation{
		ID:               uuid.New(),
		Status:           data.InitialStatus,
		StartDate:        data.StartDate,
		InputMassKg:      data.InputMassKg,
		InitialSugarBrix: data.InitialSugarBrix,
		InitialDensity:   data.InitialDensity,
		VintageYear:      data.VintageYear,
		TemperatureRange: data.TemperatureRange,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if f.Status == "" {
		f.Status = StatusActive
	}
	if f.StartDate.IsZero() {
		f.StartDate = now
	}

	if err := s.storage.CreateFermentation(ctx, f); err != nil {
		s.log.ErrorContext(ctx, "failed to store fermentation", logger.FermentationID(f.ID), logger.Error(err))
		return Fermentation{}, res, errors.Join(ErrFailedToCreateFermentation, err)
	}

	s.log.InfoContext(ctx, "fermentation created", logger.FermentationID(f.ID), logger.Status(f.Status))
	return f, res, nil
}

// GetFermentation returns a stored batch.
func (s *Service) GetFermentation(ctx context.Context, id uuid.UUID) (Fermentation, error) {
	f, err := s.storage.GetFermentation(ctx, id)
	if err != nil {
		if errors.Is(err, ErrFermentationNotFound) {
			return Fermentation{}, err
		}
		return Fermentation{}, errors.Join(ErrFailedToLoadFermentation, err)
	}
	return f, nil
}

// RecordSample validates and stores one sample while holding the batch lock.
// Samples whose type and timestamp are already taken are rejected.
func (s *Service) RecordSample(ctx context.Context, fermentationID uuid.UUID, sample Sample) (Sample, validator.Result, error) {
	unlock, err := s.lock(ctx, fermentationID)
	if err != nil {
		return Sample{}, validator.Result{}, err
	}
	defer s.unlock(ctx, fermentationID, unlock)

	if _, err := s.GetFermentation(ctx, fermentationID); err != nil {
		return Sample{}, validator.Result{}, err
	}

	sample = s.prepare(fermentationID, sample)

	dup, err := s.storage.CheckDuplicateTimestamp(ctx, fermentationID, sample, uuid.Nil)
	if err != nil {
		return Sample{}, validator.Result{}, errors.Join(ErrFailedToCheckDuplicate, err)
	}
	if dup {
		res := validator.Failure(duplicateTimestamp(sample))
		s.reject(ctx, OpRecordSample, fermentationID, sample, res)
		return Sample{}, res, nil
	}

	res := s.orchestrator.ValidateSampleComplete(ctx, fermentationID, sample)
	if !res.IsValid() {
		s.reject(ctx, OpRecordSample, fermentationID, sample, res)
		return Sample{}, res, nil
	}

	if err := s.storage.CreateSample(ctx, sample); err != nil {
		if errors.Is(err, ErrDuplicateSample) {
			res = res.Merge(validator.Failure(duplicateTimestamp(sample)))
			s.reject(ctx, OpRecordSample, fermentationID, sample, res)
			return Sample{}, res, nil
		}
		s.metrics.observe(OpRecordSample, res)
		s.log.ErrorContext(ctx, "failed to store sample", logger.FermentationID(fermentationID), logger.Error(err))
		return Sample{}, res, errors.Join(ErrFailedToRecordSample, err)
	}

	s.metrics.observe(OpRecordSample, res)
	s.log.DebugContext(ctx, "sample recorded",
		logger.FermentationID(fermentationID),
		logger.SampleID(sample.ID),
		logger.SampleType(sample.Type),
	)
	return sample, res, nil
}

// ValidateSamples runs batch validation without storing anything.
func (s *Service) ValidateSamples(ctx context.Context, fermentationID uuid.UUID, samples []Sample) (validator.Result, error) {
	if _, err := s.GetFermentation(ctx, fermentationID); err != nil {
		return validator.Result{}, err
	}
	return s.orchestrator.ValidateSampleBatch(ctx, fermentationID, samples), nil
}

// ImportSamples validates samples as one batch and stores those that passed.
// The result holds the diagnostics of every sample tagged with SampleOrigin.
func (s *Service) ImportSamples(ctx context.Context, fermentationID uuid.UUID, samples []Sample) ([]Sample, validator.Result, error) {
	unlock, err := s.lock(ctx, fermentationID)
	if err != nil {
		return nil, validator.Result{}, err
	}
	defer s.unlock(ctx, fermentationID, unlock)

	if _, err := s.GetFermentation(ctx, fermentationID); err != nil {
		return nil, validator.Result{}, err
	}

	prepared := make([]Sample, len(samples))
	for i, sm := range samples {
		prepared[i] = s.prepare(fermentationID, sm)
	}

	res := s.orchestrator.ValidateSampleBatch(ctx, fermentationID, prepared)

	var stored []Sample
	for i, sm := range prepared {
		origin := SampleOrigin(i)
		if !res.ForOrigin(origin).IsValid() {
			continue
		}
		if err := s.storage.CreateSample(ctx, sm); err != nil {
			if errors.Is(err, ErrDuplicateSample) {
				res = res.Merge(validator.Failure(duplicateTimestamp(sm)).WithOrigin(origin))
				continue
			}
			s.metrics.observe(OpImportSamples, res)
			s.log.ErrorContext(ctx, "failed to store imported sample",
				logger.FermentationID(fermentationID),
				logger.Count("stored", len(stored)),
				logger.Error(err),
			)
			return stored, res, errors.Join(ErrFailedToRecordSample, err)
		}
		stored = append(stored, sm)
	}

	s.metrics.observe(OpImportSamples, res)
	level := slog.LevelInfo
	if !res.IsValid() {
		level = slog.LevelWarn
	}
	s.log.Log(ctx, level, "samples imported",
		logger.FermentationID(fermentationID),
		logger.Count("received", len(samples)),
		logger.Count("stored", len(stored)),
		logger.RejectedFields(res.Errors.Fields()),
	)
	return stored, res, nil
}

// ChangeStatus moves a batch to next. Completing a batch additionally requires
// the completion criteria to hold for the latest sugar reading and the number
// of whole days since the start date.
func (s *Service) ChangeStatus(ctx context.Context, fermentationID uuid.UUID, next Status) (Fermentation, validator.Result, error) {
	unlock, err := s.lock(ctx, fermentationID)
	if err != nil {
		return Fermentation{}, validator.Result{}, err
	}
	defer s.unlock(ctx, fermentationID, unlock)

	f, err := s.GetFermentation(ctx, fermentationID)
	if err != nil {
		return Fermentation{}, validator.Result{}, err
	}

	res := s.lifecycle.ValidateStatusTransition(f.Status, next)
	if res.IsValid() && next == StatusCompleted {
		in, missing, err := s.completionInput(ctx, f)
		if err != nil {
			return f, validator.Result{}, err
		}
		if missing != nil {
			res = validator.Failure(*missing)
		} else {
			res = s.lifecycle.ValidateTransition(ctx, f.Status, next, in)
		}
	}

	s.metrics.observe(OpChangeStatus, res)
	if !res.IsValid() {
		s.log.WarnContext(ctx, "status change rejected",
			logger.FermentationID(fermentationID),
			logger.Transition(f.Status, next),
			logger.RejectedFields(res.Errors.Fields()),
		)
		return f, res, nil
	}

	now := s.now().UTC()
	if err := s.storage.UpdateFermentationStatus(ctx, fermentationID, f.Status, next, now); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return f, res, err
		}
		return f, res, errors.Join(ErrFailedToUpdateStatus, err)
	}

	s.metrics.transition(f.Status, next)
	s.log.InfoContext(ctx, "status changed",
		logger.FermentationID(fermentationID),
		logger.Transition(f.Status, next),
	)

	f.Status = next
	f.UpdatedAt = now
	return f, res, nil
}

// completionInput gathers the completion data of f. A batch without any sugar
// reading yields a diagnostic instead of an input.
func (s *Service) completionInput(ctx context.Context, f Fermentation) (CompletionInput, *validator.ValidationError, error) {
	latest, err := s.storage.GetLatestSampleByType(ctx, f.ID, SampleTypeSugar)
	if err != nil {
		return CompletionInput{}, nil, errors.Join(ErrFailedToLoadCompletionInput, err)
	}
	if latest == nil {
		missing := validator.Errorf(FieldFinalSugar, "no %s sample recorded", SampleTypeSugar)
		return CompletionInput{}, &missing, nil
	}
	return CompletionInput{
		InputMassKg:    f.InputMassKg,
		FinalSugarBrix: latest.Value,
		DurationDays:   DaysSince(f.StartDate, s.now()),
	}, nil, nil
}

// DaysSince returns the number of whole days between start and now, never negative.
func DaysSince(start, now time.Time) int {
	if !now.After(start) {
		return 0
	}
	return int(now.Sub(start) / (24 * time.Hour))
}

func (s *Service) prepare(fermentationID uuid.UUID, sample Sample) Sample {
	sample.FermentationID = fermentationID
	if sample.ID == uuid.Nil {
		sample.ID = uuid.New()
	}
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = s.now().UTC()
	}
	return sample
}

func (s *Service) reject(ctx context.Context, op string, fermentationID uuid.UUID, sample Sample, res validator.Result) {
	s.metrics.observe(op, res)
	s.log.WarnContext(ctx, "sample rejected",
		logger.FermentationID(fermentationID),
		logger.SampleType(sample.Type),
		logger.RejectedFields(res.Errors.Fields()),
	)
}

func (s *Service) lock(ctx context.Context, fermentationID uuid.UUID) (func(context.Context) error, error) {
	unlock, err := s.locker.Lock(ctx, lockKey(fermentationID))
	if err != nil {
		s.log.ErrorContext(ctx, "failed to acquire lock", logger.FermentationID(fermentationID), logger.Error(err))
		return nil, errors.Join(ErrFailedToAcquireLock, err)
	}
	return unlock, nil
}

func (s *Service) unlock(ctx context.Context, fermentationID uuid.UUID, unlock func(context.Context) error) {
	if err := unlock(context.WithoutCancel(ctx)); err != nil {
		s.log.WarnContext(ctx, "failed to release lock", logger.FermentationID(fermentationID), logger.Error(err))
	}
}

func duplicateTimestamp(sample Sample) validator.ValidationError {
	return validator.ValidationError{
		Field:        FieldRecordedAt,
		Message:      fmt.Sprintf("a %s sample is already recorded at %s", sample.Type, sample.RecordedAt.Format(time.RFC3339)),
		CurrentValue: sample.RecordedAt,
	}
}
