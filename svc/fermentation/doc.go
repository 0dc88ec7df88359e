// Package fermentation validates and records wine fermentation batches and
// their sensor samples.
//
// The validation core is made of small, stateless validators holding only
// read-only collaborators:
//
//   - ValidateSampleValue and ValidateNumericValue check a single measurement.
//   - ChronologyValidator keeps same-type samples strictly time-ordered and,
//     optionally, not earlier than the batch start.
//   - BusinessRuleValidator applies the per-type rules: sugar must not rise
//     beyond a tolerance, temperature must stay inside the batch band.
//   - Orchestrator runs chronology, value and business-rule checks in that
//     order and stops at the first failing stage. ValidateSampleBatch reduces
//     a list of samples into one result tagged per sample.
//   - LifecycleValidator enforces the status transition table and accumulates
//     every failure of batch creation and completion checks.
//
// Every validator returns a validator.Result. Domain problems, including
// collaborator failures while reading history, are reported as diagnostics
// and never as Go errors.
//
// Service is the write path built on top of the core. It serialises writes
// per batch through a Locker, persists through a Storage and records outcomes
// in Metrics. MemoryStorage and PostgresStorage implement Storage; the schema
// for the latter is embedded in Migrations.
//
// # Usage
//
//	storage := fermentation.NewMemoryStorage()
//	svc := fermentation.NewService(storage,
//		fermentation.WithLogger(log),
//		fermentation.WithOrchestratorOptions(fermentation.WithSugarTolerance(0.2)),
//	)
//
//	batch, res, err := svc.CreateFermentation(ctx, fermentation.CreationData{
//		InputMassKg:      1000,
//		InitialSugarBrix: 24,
//		InitialDensity:   1.1,
//		VintageYear:      2024,
//	})
//	if err != nil {
//		return err
//	}
//	if !res.IsValid() {
//		return res.Err()
//	}
//
//	_, res, err = svc.RecordSample(ctx, batch.ID, fermentation.Sample{
//		Type:       fermentation.SampleTypeSugar,
//		Value:      22.5,
//		RecordedAt: time.Now(),
//	})
package fermentation
