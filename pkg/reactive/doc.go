// Package reactive implements weft's fine-grained dependency tracking.
//
// A Dependency wraps one observable value. Reading it while a Mediator is
// evaluating (see Track) attributes the dependency to that mediator together
// with an EffectTag describing what the read produced: an element type, its
// properties, or a child slot. Writing a different value notifies every
// attributed mediator exactly once with the bitwise OR of the bits it
// captured.
//
// Nested values are made reactive on write: map[string]any becomes an
// *Object whose keys are observed lazily, and []any becomes a *List whose
// mutating methods notify once per call.
//
// The "currently evaluating" mediator is a single process-wide slot. Element
// construction and reconciliation run on one goroutine, so the package is not
// safe for concurrent use.
package reactive
