package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/winery/pkg/validator"
	"github.com/dmitrymomot/winery/svc/fermentation"
)

// CSV columns of an import file. Column order is free; names are case-insensitive.
const (
	ColumnSampleType = "sample_type"
	ColumnValue      = "value"
	ColumnRecordedAt = "recorded_at"
)

// SampleFile is a parsed import file.
type SampleFile struct {
	Samples []fermentation.Sample
	Lines   []int            // Lines[i] is the file line of Samples[i]
	Result  validator.Result // diagnostics of rows that could not become samples
}

// RowOrigin names the row at the given file line in diagnostics.
func RowOrigin(line int) string {
	return fmt.Sprintf("rows[%d]", line)
}

// ParseSampleFile reads sample rows from r. Malformed rows are reported in
// the result and left out of Samples; only an unreadable file or a bad
// header is an error.
func ParseSampleFile(r io.Reader) (SampleFile, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return SampleFile{}, fmt.Errorf("%w: file is empty", ErrInvalidCSVHeader)
		}
		return SampleFile{}, errors.Join(ErrFailedToReadCSV, err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return SampleFile{}, err
	}

	var out SampleFile
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
			out.Result = out.Result.Merge(validator.Failure(validator.ValidationError{
				Field:         "row",
				Message:       fmt.Sprintf("expected %d columns, got %d", len(header), len(record)),
				CurrentValue:  len(record),
				ExpectedRange: strconv.Itoa(len(header)),
				Origin:        RowOrigin(parseErr.StartLine),
			}))
			continue
		}
		if err != nil {
			return SampleFile{}, errors.Join(ErrFailedToReadCSV, err)
		}

		line, _ := cr.FieldPos(0)
		sample, res := parseRow(record, cols)
		if !res.IsValid() {
			out.Result = out.Result.Merge(res.WithOrigin(RowOrigin(line)))
			continue
		}
		out.Samples = append(out.Samples, sample)
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

type columns struct {
	sampleType, value, recordedAt int
}

func columnIndex(header []string) (columns, error) {
	idx := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := idx[name]; dup {
			return columns{}, fmt.Errorf("%w: duplicate column %q", ErrInvalidCSVHeader, name)
		}
		idx[name] = i
	}

	var cols columns
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{ColumnSampleType, &cols.sampleType},
		{ColumnValue, &cols.value},
		{ColumnRecordedAt, &cols.recordedAt},
	} {
		i, ok := idx[c.name]
		if !ok {
			return columns{}, fmt.Errorf("%w: missing column %q", ErrInvalidCSVHeader, c.name)
		}
		*c.dst = i
	}
	return cols, nil
}

func parseRow(record []string, cols columns) (fermentation.Sample, validator.Result) {
	return parseSample(record[cols.sampleType], record[cols.value], record[cols.recordedAt])
}

// parseSample turns the text form of a sample into a Sample. Any problem with
// the type, value or timestamp is reported in the result.
func parseSample(rawType, rawValue, rawRecordedAt string) (fermentation.Sample, validator.Result) {
	sampleType, err := fermentation.ParseSampleType(rawType)
	if err != nil {
		sampleType = fermentation.SampleType(rawType)
	}

	res := fermentation.ValidateSampleValue(sampleType, rawValue)

	recordedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(rawRecordedAt))
	if err != nil {
		res = res.Merge(validator.Failure(validator.ValidationError{
			Field:         fermentation.FieldRecordedAt,
			Message:       "must be an RFC 3339 timestamp",
			CurrentValue:  rawRecordedAt,
			ExpectedRange: time.RFC3339,
		}))
	}
	if !res.IsValid() {
		return fermentation.Sample{}, res
	}

	// ValidateSampleValue accepted the text, so it parses.
	value, _ := strconv.ParseFloat(strings.TrimSpace(rawValue), 64)
	return fermentation.Sample{
		Type:       sampleType,
		Value:      value,
		RecordedAt: recordedAt.UTC(),
	}, res
}
