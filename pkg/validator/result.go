package validator

// Result is the outcome of a validation call.
// A Result is valid exactly when Errors is empty; Warnings never affect validity.
type Result struct {
	Errors   ValidationErrors
	Warnings ValidationErrors
}

// Success returns a passing result without diagnostics.
func Success() Result {
	return Result{}
}

// Failure returns a failing result carrying the given errors.
func Failure(errs ...ValidationError) Result {
	return Result{Errors: concat(errs)}
}

// Warning returns a passing result carrying the given warnings.
func Warning(warnings ...ValidationError) Result {
	return Result{Warnings: concat(warnings)}
}

func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Merge returns a new result holding r's diagnostics followed by those of others.
// Neither r nor others are modified.
func (r Result) Merge(others ...Result) Result {
	errs := [][]ValidationError{r.Errors}
	warnings := [][]ValidationError{r.Warnings}
	for _, o := range others {
		errs = append(errs, o.Errors)
		warnings = append(warnings, o.Warnings)
	}
	return Result{
		Errors:   concat(errs...),
		Warnings: concat(warnings...),
	}
}

// MergeAll folds results left to right starting from Success.
func MergeAll(results ...Result) Result {
	return Success().Merge(results...)
}

// WithWarnings returns a copy of r with the given warnings appended.
func (r Result) WithWarnings(warnings ...ValidationError) Result {
	return r.Merge(Warning(warnings...))
}

// WithOrigin returns a copy of r where every diagnostic without an origin is
// attributed to origin. Diagnostics that already carry an origin keep it.
func (r Result) WithOrigin(origin string) Result {
	tag := func(in ValidationErrors) ValidationErrors {
		out := concat(in)
		for i := range out {
			if out[i].Origin == "" {
				out[i].Origin = origin
			}
		}
		return out
	}
	return Result{
		Errors:   tag(r.Errors),
		Warnings: tag(r.Warnings),
	}
}

// ForOrigin returns the subset of diagnostics attributed to origin.
func (r Result) ForOrigin(origin string) Result {
	pick := func(in ValidationErrors) ValidationErrors {
		var out ValidationErrors
		for _, e := range in {
			if e.Origin == origin {
				out = append(out, e)
			}
		}
		return out
	}
	return Result{
		Errors:   pick(r.Errors),
		Warnings: pick(r.Warnings),
	}
}

// Err returns the errors as a ValidationErrors error, or nil for a valid result.
func (r Result) Err() error {
	if r.IsValid() {
		return nil
	}
	return concat(r.Errors)
}

// concat always allocates a fresh slice so results never alias each other.
// Empty input yields nil to keep merged results deep-equal regardless of grouping.
func concat(parts ...[]ValidationError) ValidationErrors {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	if n == 0 {
		return nil
	}
	out := make(ValidationErrors, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
