package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/winery/pkg/config"
	"github.com/dmitrymomot/winery/pkg/file"
	"github.com/dmitrymomot/winery/pkg/logger"
	"github.com/dmitrymomot/winery/pkg/validator"
	"github.com/dmitrymomot/winery/svc/fermentation"
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import historical samples from a CSV file",
		Long: `Import historical samples of one fermentation batch from a CSV file.

The file needs the columns sample_type, value and recorded_at (RFC 3339).
Every row is validated in file order; rows that pass are stored, rejected
rows are listed with the reason.

Examples:
  # Local file, resolved inside IMPORT_LOCAL_DIR
  winery import --fermentation 6f1c... --source harvest/tank-4.csv

  # S3 object, validate only
  winery import --fermentation 6f1c... --source s3://cellar-logs/2024/tank-4.csv --dry-run`,
		RunE: runImport,
	}

	cmd.Flags().StringP("fermentation", "f", "", "Fermentation batch ID")
	cmd.Flags().StringP("source", "s", "", "Local path or s3://bucket/key")
	cmd.Flags().Bool("dry-run", false, "Validate without storing")
	_ = cmd.MarkFlagRequired("fermentation")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagFilename("source", "csv")

	return cmd
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rawID, _ := cmd.Flags().GetString("fermentation")
	source, _ := cmd.Flags().GetString("source")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	id, err := uuid.Parse(rawID)
	if err != nil {
		return errors.Join(ErrInvalidFermentation, err)
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	service, log, closeFn, err := openService(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeFn()

	src, err := newSourceRouter(ctx, cfg, source)
	if err != nil {
		return err
	}

	im := &Importer{Service: service, Source: src, Out: cmd.OutOrStdout(), Log: log}
	_, err = im.Run(ctx, id, source, dryRun)
	return err
}

// openService wires the Postgres storage and the configured lock into a
// fermentation service. The returned function releases both.
func openService(ctx context.Context, cfg AppConfig, logOut io.Writer) (*fermentation.Service, *slog.Logger, func(), error) {
	log := newLogger(cfg, logOut)

	pool, err := connectPostgres(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	locker, closeLocker, err := newLocker(ctx, cfg, log)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	service := fermentation.NewService(
		fermentation.NewPostgresStorage(pool),
		fermentation.WithLogger(log),
		fermentation.WithLocker(locker),
		fermentation.WithOrchestratorOptions(cfg.OrchestratorOptions()...),
	)
	return service, log, func() {
		closeLocker()
		pool.Close()
	}, nil
}

// newSourceRouter serves local paths from cfg.ImportDir and, for s3://
// locations, the bucket named in location unless IMPORT_S3_BUCKET pins one.
func newSourceRouter(ctx context.Context, cfg AppConfig, location string) (*file.Router, error) {
	local, err := file.NewLocalSource(cfg.ImportDir)
	if err != nil {
		return nil, err
	}

	loc, err := file.ParseLocation(location)
	if err != nil {
		return nil, err
	}
	if !loc.IsS3() {
		return file.NewRouter(local), nil
	}

	var s3cfg file.S3Config
	if err := config.Load(&s3cfg); err != nil {
		return nil, err
	}
	if s3cfg.Bucket == "" {
		s3cfg.Bucket = loc.Bucket
	}
	bucket, err := file.NewS3Source(ctx, s3cfg)
	if err != nil {
		return nil, err
	}
	return file.NewRouter(local, bucket), nil
}

// ImportReport summarizes one import run.
type ImportReport struct {
	Rows     int
	Accepted int
	Stored   []fermentation.Sample
	Result   validator.Result // every diagnostic, tagged with RowOrigin
}

// Importer reads an import file and feeds it through the fermentation service.
type Importer struct {
	Service *fermentation.Service
	Source  file.Source
	Out     io.Writer
	Log     *slog.Logger
}

// Run imports the file at location into the batch. With dryRun the samples
// are validated but nothing is stored. A run with rejected rows returns the
// report together with ErrRowsRejected.
func (im *Importer) Run(ctx context.Context, fermentationID uuid.UUID, location string, dryRun bool) (ImportReport, error) {
	rc, err := im.Source.Open(ctx, location)
	if err != nil {
		return ImportReport{}, err
	}
	defer func() {
		if err := rc.Close(); err != nil && im.Log != nil {
			im.Log.WarnContext(ctx, "failed to close import source", logger.Error(err))
		}
	}()

	parsed, err := ParseSampleFile(rc)
	if err != nil {
		return ImportReport{}, err
	}

	var (
		res    validator.Result
		stored []fermentation.Sample
	)
	if dryRun {
		res, err = im.Service.ValidateSamples(ctx, fermentationID, parsed.Samples)
	} else {
		stored, res, err = im.Service.ImportSamples(ctx, fermentationID, parsed.Samples)
	}
	if err != nil {
		return ImportReport{}, err
	}

	origins := make(map[string]string, len(parsed.Lines))
	accepted := 0
	for i, line := range parsed.Lines {
		origin := fermentation.SampleOrigin(i)
		origins[origin] = RowOrigin(line)
		if res.ForOrigin(origin).IsValid() {
			accepted++
		}
	}
	if !dryRun {
		accepted = len(stored)
	}

	report := ImportReport{
		Rows:     len(parsed.Lines) + len(rowsOf(parsed.Result)),
		Accepted: accepted,
		Stored:   stored,
		Result:   parsed.Result.Merge(relabel(res, origins)),
	}
	im.print(fermentationID, report, dryRun)

	if !report.Result.IsValid() {
		return report, ErrRowsRejected
	}
	return report, nil
}

func (im *Importer) print(fermentationID uuid.UUID, r ImportReport, dryRun bool) {
	if im.Out == nil {
		return
	}
	verb := "imported"
	if dryRun {
		verb = "valid"
	}
	fmt.Fprintf(im.Out, "fermentation %s: %d rows, %d %s, %d rejected\n",
		fermentationID, r.Rows, r.Accepted, verb, r.Rows-r.Accepted)
	printResult(im.Out, r.Result)
}

// printResult lists every error and warning of res, one per line.
func printResult(w io.Writer, res validator.Result) {
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  error   %s\n", e)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "  warning %s\n", warn)
	}
}

// relabel rewrites diagnostic origins through the given mapping.
func relabel(res validator.Result, origins map[string]string) validator.Result {
	apply := func(in validator.ValidationErrors) []validator.ValidationError {
		out := make([]validator.ValidationError, len(in))
		for i, e := range in {
			if o, ok := origins[e.Origin]; ok {
				e.Origin = o
			}
			out[i] = e
		}
		return out
	}
	return validator.Failure(apply(res.Errors)...).WithWarnings(apply(res.Warnings)...)
}

// rowsOf returns the distinct origins of the result's errors.
func rowsOf(res validator.Result) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range res.Errors {
		if !seen[e.Origin] {
			seen[e.Origin] = true
			out = append(out, e.Origin)
		}
	}
	return out
}
