package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/winery/svc/fermentation"
)

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new fermentation batch",
		Long: `Register a new fermentation batch.

The batch starts ACTIVE unless --status LAG is given. The start date
defaults to now and the temperature band is optional.

Examples:
  winery create --mass 1200 --brix 24.5 --density 1.105 --vintage 2024

  winery create --mass 800 --brix 22 --density 1.09 --vintage 2024 \
    --start 2024-09-01T08:00:00Z --status LAG --temp-min 12 --temp-max 28`,
		RunE: runCreate,
	}

	cmd.Flags().Float64("mass", 0, "Input grape mass in kg")
	cmd.Flags().Float64("brix", 0, "Initial sugar in °Brix")
	cmd.Flags().Float64("density", 0, "Initial must density in g/mL")
	cmd.Flags().Int("vintage", 0, "Vintage year")
	cmd.Flags().String("start", "", "Start date (RFC 3339), defaults to now")
	cmd.Flags().String("status", "", "Initial status, ACTIVE or LAG")
	cmd.Flags().Float64("temp-min", 0, "Lower bound of the temperature band in °C")
	cmd.Flags().Float64("temp-max", 0, "Upper bound of the temperature band in °C")
	for _, name := range []string{"mass", "brix", "density", "vintage"} {
		_ = cmd.MarkFlagRequired(name)
	}
	cmd.MarkFlagsRequiredTogether("temp-min", "temp-max")

	return cmd
}

func runCreate(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	var data fermentation.CreationData
	data.InputMassKg, _ = flags.GetFloat64("mass")
	data.InitialSugarBrix, _ = flags.GetFloat64("brix")
	data.InitialDensity, _ = flags.GetFloat64("density")
	data.VintageYear, _ = flags.GetInt("vintage")

	if raw, _ := flags.GetString("start"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		data.StartDate = start.UTC()
	}
	if raw, _ := flags.GetString("status"); raw != "" {
		data.InitialStatus = statusArg(raw)
	}
	if flags.Changed("temp-min") {
		var band fermentation.TemperatureRange
		band.Min, _ = flags.GetFloat64("temp-min")
		band.Max, _ = flags.GetFloat64("temp-max")
		data.TemperatureRange = &band
	}

	return withService(cmd, func(ctx context.Context, service *fermentation.Service) error {
		_, err := CreateBatch(ctx, service, cmd.OutOrStdout(), data)
		return err
	})
}

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Move a fermentation batch to another status",
		Long: `Move a fermentation batch to another status.

Completing a batch requires at least 7 days since the start date, a latest
sugar reading below 5 °Brix and a positive input mass.

Example:
  winery status --fermentation 6f1c... --to COMPLETED`,
		RunE: runStatus,
	}

	cmd.Flags().StringP("fermentation", "f", "", "Fermentation batch ID")
	cmd.Flags().String("to", "", "Target status")
	_ = cmd.MarkFlagRequired("fermentation")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	rawID, _ := cmd.Flags().GetString("fermentation")
	to, _ := cmd.Flags().GetString("to")

	id, err := uuid.Parse(rawID)
	if err != nil {
		return errors.Join(ErrInvalidFermentation, err)
	}

	return withService(cmd, func(ctx context.Context, service *fermentation.Service) error {
		_, err := ChangeBatchStatus(ctx, service, cmd.OutOrStdout(), id, statusArg(to))
		return err
	})
}

func newRecordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one sample of a fermentation batch",
		Long: `Record one sample of a fermentation batch.

The sample is checked against the batch history before it is stored.

Example:
  winery record --fermentation 6f1c... --type SUGAR --value 18.5 --at 2024-09-04T08:00:00Z`,
		RunE: runRecord,
	}

	cmd.Flags().StringP("fermentation", "f", "", "Fermentation batch ID")
	cmd.Flags().StringP("type", "t", "", "Sample type: SUGAR, TEMPERATURE or DENSITY")
	cmd.Flags().String("value", "", "Measured value")
	cmd.Flags().String("at", "", "Measurement time (RFC 3339), defaults to now")
	_ = cmd.MarkFlagRequired("fermentation")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func runRecord(cmd *cobra.Command, _ []string) error {
	rawID, _ := cmd.Flags().GetString("fermentation")
	sampleType, _ := cmd.Flags().GetString("type")
	value, _ := cmd.Flags().GetString("value")
	at, _ := cmd.Flags().GetString("at")

	id, err := uuid.Parse(rawID)
	if err != nil {
		return errors.Join(ErrInvalidFermentation, err)
	}
	if at == "" {
		at = time.Now().UTC().Format(time.RFC3339)
	}

	return withService(cmd, func(ctx context.Context, service *fermentation.Service) error {
		_, err := RecordBatchSample(ctx, service, cmd.OutOrStdout(), id, sampleType, value, at)
		return err
	})
}

func withService(cmd *cobra.Command, fn func(context.Context, *fermentation.Service) error) error {
	ctx := cmd.Context()
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	service, _, closeFn, err := openService(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, service)
}

// statusArg normalizes a status flag. Unknown names are kept so the
// lifecycle rules can report them.
func statusArg(raw string) fermentation.Status {
	if st, err := fermentation.ParseStatus(raw); err == nil {
		return st
	}
	return fermentation.Status(strings.ToUpper(strings.TrimSpace(raw)))
}

// CreateBatch stores a new batch and prints the outcome to out. Invalid
// creation data is printed and reported as ErrRejected.
func CreateBatch(ctx context.Context, service *fermentation.Service, out io.Writer, data fermentation.CreationData) (fermentation.Fermentation, error) {
	f, res, err := service.CreateFermentation(ctx, data)
	if err != nil {
		return fermentation.Fermentation{}, err
	}
	if !res.IsValid() {
		fmt.Fprintln(out, "fermentation rejected")
		printResult(out, res)
		return fermentation.Fermentation{}, ErrRejected
	}

	fmt.Fprintf(out, "fermentation %s: created, status %s, started %s\n",
		f.ID, f.Status, f.StartDate.Format(time.RFC3339))
	printResult(out, res)
	return f, nil
}

// ChangeBatchStatus moves the batch to next and prints the outcome to out.
// A refused transition is printed and reported as ErrRejected.
func ChangeBatchStatus(ctx context.Context, service *fermentation.Service, out io.Writer, id uuid.UUID, next fermentation.Status) (fermentation.Fermentation, error) {
	f, res, err := service.ChangeStatus(ctx, id, next)
	if err != nil {
		return f, err
	}
	if !res.IsValid() {
		fmt.Fprintf(out, "fermentation %s: %s -> %s rejected\n", id, f.Status, next)
		printResult(out, res)
		return f, ErrRejected
	}

	fmt.Fprintf(out, "fermentation %s: status %s\n", id, f.Status)
	printResult(out, res)
	return f, nil
}

// RecordBatchSample parses and records one sample and prints the outcome to
// out. A sample that fails parsing or validation is printed and reported as
// ErrRejected.
func RecordBatchSample(ctx context.Context, service *fermentation.Service, out io.Writer, id uuid.UUID, sampleType, value, recordedAt string) (fermentation.Sample, error) {
	sample, res := parseSample(sampleType, value, recordedAt)
	if res.IsValid() {
		var err error
		sample, res, err = service.RecordSample(ctx, id, sample)
		if err != nil {
			return fermentation.Sample{}, err
		}
	}
	if !res.IsValid() {
		fmt.Fprintf(out, "fermentation %s: sample rejected\n", id)
		printResult(out, res)
		return fermentation.Sample{}, ErrRejected
	}

	fmt.Fprintf(out, "fermentation %s: sample %s recorded, %s %g %s at %s\n",
		id, sample.ID, sample.Type, sample.Value, sample.Units(), sample.RecordedAt.Format(time.RFC3339))
	printResult(out, res)
	return sample, nil
}
