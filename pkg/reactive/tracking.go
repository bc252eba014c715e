package reactive

// evaluation is the ambient "currently evaluating" pair.
type evaluation struct {
	mediator *Mediator
	tag      EffectTag
}

var current evaluation

// Track runs fn with m installed as the currently evaluating mediator. Every
// dependency read inside fn is attributed to m with tag, replacing what an
// earlier evaluation with the same tag captured. The previous pair is
// restored on every exit path, including panics.
func Track(m *Mediator, tag EffectTag, fn func()) {
	if m != nil && tag != 0 {
		m.release(tag)
	}
	prev := current
	current = evaluation{mediator: m, tag: tag}
	defer func() { current = prev }()

	fn()
}

// Capture is Track for functions producing a value.
func Capture[T any](m *Mediator, tag EffectTag, fn func() T) T {
	var out T
	Track(m, tag, func() { out = fn() })
	return out
}

// Untracked runs fn with no evaluating mediator, so reads inside it are not
// attributed to anything.
func Untracked(fn func()) {
	Track(nil, 0, fn)
}

// Current returns the evaluating mediator and its capture tag, or nil.
func Current() (*Mediator, EffectTag) {
	return current.mediator, current.tag
}
