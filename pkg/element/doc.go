// Package element builds the immutable element descriptions that fibers are
// reconciled against.
//
// Every H call creates exactly one element mediator and evaluates the
// element's type and property functions with that mediator installed, so
// reactive reads inside them are attributed with the Type and Prop bits.
// A function-valued child becomes a virtual element: a non-rendering
// wrapper with its own mediator, capturing reads with the Child bit, whose
// flattened output can be zero, one or many elements while still occupying a
// single positional slot.
//
//	element.Div(element.Attrs(element.Props{"class": "counter"}),
//	    element.H1(nil, "Count"),
//	    element.P(nil, func() any { return count.Get() }),
//	)
package element
