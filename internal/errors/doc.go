// Package errors provides coded, explainable error messages for the
// reactive command line tools.
//
// Each error has a unique code (e.g., "R001") that maps to a short
// message, a longer explanation and, where one exists, a hint on how to
// fix it. Engine failures from package reactive are mapped to their codes
// with FromError:
//
//	if _, err := total.TryGet(); err != nil {
//	    fmt.Fprint(os.Stderr, errors.FromError(err).Format())
//	}
//	// Output:
//	// ERROR R001: Cyclic dependency
//	//
//	//   reactive: cyclic dependency: total#2 -> subtotal#3 -> total#2
//	//
//	//   A computed value read itself, directly or through other computed
//	//   values, while it was being evaluated.
//	//
//	//   Hint: Break the loop by reading one side with Peek or Untrack.
//
// # Categories
//
//   - runtime: failures raised by the reactive engine (R001-R099)
//   - config: configuration file errors (R100-R109)
//   - cli: command line usage errors (R110-R199)
package errors
