package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// FermentationID records the batch identifier under the key "fermentation_id".
// If id is nil, it returns an empty Attr.
func FermentationID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("fermentation_id", id)
}

// SampleID records the sample identifier under the key "sample_id".
// If id is nil, it returns an empty Attr.
func SampleID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("sample_id", id)
}

// SampleType records the measurement kind under the key "sample_type".
func SampleType(t any) slog.Attr {
	if t == nil {
		return slog.Attr{}
	}
	return slog.Any("sample_type", t)
}

// Status records a lifecycle status under the key "status".
func Status(s any) slog.Attr {
	if s == nil {
		return slog.Attr{}
	}
	return slog.Any("status", s)
}

// Transition records a status change as "from" and "to" under the key "transition".
func Transition(from, to any) slog.Attr {
	return Group("transition", slog.Any("from", from), slog.Any("to", to))
}

// RejectedFields records the fields that failed validation under the key "rejected_fields".
// If no fields are given, it returns an empty Attr.
func RejectedFields(fields []string) slog.Attr {
	if len(fields) == 0 {
		return slog.Attr{}
	}
	return slog.Any("rejected_fields", fields)
}

// Count records a counter under the given key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
