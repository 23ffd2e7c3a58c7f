// Package validator provides a composable set of generic, type-safe validation
// rules for strings, numbers, collections, choices and formats such as email
// addresses, URLs and CSS lengths.
//
// A Rule pairs a Check function with translation-friendly error metadata.
// Apply evaluates rules and aggregates failures into ValidationErrors, which
// implements error and matches ErrValidationFailed with errors.Is.
//
// # Usage
//
//	err := validator.Apply(
//	    validator.RequiredString("name", tpl.Name),
//	    validator.MaxLenSlice("elements", tpl.Elements, 500),
//	    validator.RangeNum("content.level", level, 1, 6),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, f := range verrs.Fields() {
//	        // ...
//	    }
//	}
//
// Errors of nested values can be re-scoped with ValidationErrors.Prefix so the
// field path points at the offending value, for example
// "elements[3].content.level".
//
// The package is stateless and goroutine-safe.
package validator
