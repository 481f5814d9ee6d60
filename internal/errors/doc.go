// Package errors provides structured, coded errors for the tooltip runtime,
// its template loaders and the server-driven host.
//
// Every error has a unique code (e.g., "T001") that maps to a category, a
// short message and a longer detail. Errors compare equal under errors.Is
// when their codes match, so packages can expose sentinels built from a code
// and still attach per-call context:
//
//	var ErrInvalidTrigger = errors.New(errors.CodeInvalidTrigger)
//
//	return errors.New(errors.CodeInvalidTrigger).
//	    WithDetailf("no element with id %q", id)
//
// # Error Categories
//
//   - render: template lookup and panel markup failures
//   - config: invalid tooltip or file configuration
//   - protocol: malformed client frames and unknown targets
//   - cli: command-line usage problems
//
// # Usage
//
//	err := errors.New(errors.CodeTemplateNotFound).
//	    WithSuggestion("Register the template before constructing the tooltip")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR T002: Template not found
//	//
//	//   The named template is not registered with the template store.
//	//
//	//   Hint: Register the template before constructing the tooltip
package errors
