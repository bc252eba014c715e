// Package errors provides structured, actionable errors for weft.
//
// Every error carries a registered code (e.g. "E020") that maps to a
// category, a short message, a longer explanation and, optionally, a hint on
// how to fix the problem. Errors wrap sentinel values from the public
// packages so callers can keep using errors.Is:
//
//	err := errors.New("E020").
//	    WithDetail("channel 42 was never opened").
//	    Wrap(channel.ErrNoChannel)
//
//	errors.Is(err, channel.ErrNoChannel) // true
//	fmt.Println(err.Format())
//
// # Categories
//
//   - config: the caller handed the framework something it cannot use
//     (unknown mount target, unopened channel, malformed work unit, bad
//     configuration file)
//   - evaluation: a user render, property or child function failed
//   - reconciliation: the fiber tree and the dependency graph disagree
//   - cli: command line problems
package errors
