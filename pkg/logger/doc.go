// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// A single factory, New, creates a *slog.Logger configured by Option
// functions. The options select the output format (text or json), the minimum
// level, static attributes applied to every record, and ContextExtractor
// callbacks that pull attributes (for example an import run id) out of the
// context on every Handle call.
//
// Attribute helpers in attr.go keep key names consistent across the module:
// fermentation_id, sample_type, status, validation_errors and so on. Helpers
// return an empty slog.Attr for nil input so they can be passed
// unconditionally; slog drops empty attributes.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "winery"),
//	    logger.WithContextValue("run_id", runIDKey{}),
//	)
//	log.InfoContext(ctx, "sample accepted",
//	    logger.FermentationID(id),
//	    logger.SampleType(sample.Type),
//	)
package logger
