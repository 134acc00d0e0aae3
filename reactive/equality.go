package reactive

import "reflect"

// EqualFunc reports whether two values the runtime considers for
// memoization gating (spec.md §4.2, §4.3) are equal. The default,
// hostEqual, handles comparable primitives cheaply and falls back to
// reflect.DeepEqual for composite values, per §9's equality note.
type EqualFunc func(a, b any) bool

// hostEqual is the runtime's default EqualFunc.
func hostEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	// Fast path: identical comparable values of the same concrete type
	// avoid the reflection overhead of DeepEqual for the common case of
	// primitives, strings, and small structs made only of comparable
	// fields. reflect.Value.Comparable() over-approximates for structs
	// with interface fields holding incomparable dynamic values, so the
	// attempt is guarded by a recover and falls through to DeepEqual.
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() == bv.Type() && av.Comparable() {
		if result, ok := comparableEqual(a, b); ok {
			return result
		}
	}
	return reflect.DeepEqual(a, b)
}

// comparableEqual attempts a == b behind a recover.
func comparableEqual(a, b any) (equal bool, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return a == b, true
}
