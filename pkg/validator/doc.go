// Package validator provides the shared diagnostic vocabulary used by every
// validation step in the module together with a small set of composable,
// type-safe rule builders.
//
// # Architecture
//
// A Rule couples a boolean Check with the ValidationError it reports when the
// check fails. Rules are evaluated in two ways:
//
//   - Collect runs every rule and accumulates all failures into a Result.
//     Use it for independent field checks where the caller wants the complete
//     list of problems in one pass.
//   - First stops at the first failing rule. Use it when later rules only make
//     sense if earlier ones held.
//
// Result is an immutable value: Merge and WithOrigin always return a new
// Result and never touch the slices of their inputs, so results can be shared
// between goroutines and merged in any grouping (Merge is associative).
//
// A Result is valid exactly when it carries no errors. Warnings are surfaced
// to callers but never affect validity.
//
// # Usage
//
//	res := validator.Collect(
//	    validator.Positive("input_mass_kg", data.InputMassKg),
//	    validator.Between("initial_sugar_brix", data.InitialSugarBrix, 0, 30),
//	)
//	if !res.IsValid() {
//	    for _, e := range res.Errors {
//	        fmt.Println(e.Field, e.Message)
//	    }
//	}
//
// Callers that prefer the error interface can use Result.Err, which returns a
// ValidationErrors value (or nil), and ExtractValidationErrors on the other side.
package validator
