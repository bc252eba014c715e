// Package weft provides the public API for the weft UI runtime.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/weft"
//
// Usage:
//
//	count := weft.NewField(0)
//	app := weft.New(weft.Config{})
//	err := app.Mount("body", weft.Div(nil,
//	    weft.P(nil, func() any { return count.Get() }),
//	))
//	app.Flush()
package weft

import (
	"github.com/vango-dev/weft/pkg/component"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
)

// =============================================================================
// Elements (re-export from pkg/element)
// =============================================================================

// Element is a node description.
type Element = element.Element

// Props is an element's property map.
type Props = element.Props

// PropFunc produces an element's props.
type PropFunc = element.PropFunc

// H creates an element from a tag name, a component type or a type function.
var H = element.H

// Attrs wraps a static property map.
var Attrs = element.Attrs

// Text creates a text element whose content is recomputed when its reads
// change.
var Text = element.Text

// Virtual creates a wrapper whose children are recomputed when its reads
// change.
var Virtual = element.Virtual

// Tag helpers
var (
	Div     = element.Div
	P       = element.P
	Span    = element.Span
	Em      = element.Em
	Strong  = element.Strong
	Button  = element.Button
	Input   = element.Input
	Label   = element.Label
	A       = element.A
	H1      = element.H1
	H2      = element.H2
	H3      = element.H3
	Header  = element.Header
	Section = element.Section
	Ul      = element.Ul
	Li      = element.Li
)

// =============================================================================
// Reactive state (re-export from pkg/reactive)
// =============================================================================

// Field is a typed observable value.
type Field[T any] = reactive.Field[T]

// NewField creates an observable value.
func NewField[T any](initial T) *Field[T] {
	return reactive.NewField(initial)
}

// List is an observable list.
type List = reactive.List

// NewList creates an observable list.
var NewList = reactive.NewList

// Object is an observable string-keyed record.
type Object = reactive.Object

// NewObject creates an observable record.
var NewObject = reactive.NewObject

// Untracked runs fn without recording dependency reads.
var Untracked = reactive.Untracked

// =============================================================================
// Components (re-export from pkg/component)
// =============================================================================

// Component is the interface component instances implement.
type Component = element.Component

// ComponentType names a component constructor.
type ComponentType = element.ComponentType

// Base is embedded by component implementations.
type Base = component.Base

// Fields declares a component's observables, props, computed fields and
// emits.
type Fields = component.Fields

// ComputedField declares one computed field.
type ComputedField = component.ComputedField

// NewType builds a component type.
var NewType = component.NewType
