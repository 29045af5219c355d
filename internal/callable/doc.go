// Package callable adapts arbitrary user functions to the uniform calling
// convention used by the transformation engine.
//
// A function is inspected once with Parse and can then be invoked with
// untyped arguments; arguments are converted to the declared parameter types
// at call time. Supported shapes:
//
//	func(A) R
//	func(A) (R, error)
//	func(S, A) R          // bound: receives the transformer instance first
//	func(S, A) (R, error)
//
// Errors returned by the function itself are passed through untouched so
// callers can match them with errors.Is / errors.As.
package callable
