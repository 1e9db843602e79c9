// Package content normalizes the lesson content layouts stored over the
// years into one canonical model per lesson type.
//
// Normalization is a pure function of (content, index): it has no side
// effects and returns structurally identical values for identical input.
// Content that matches no known layout, or whose layout yields no usable
// items, normalizes to an empty model rather than an error.
package content

// Normalize dispatches on the lesson type and returns the canonical model of
// the item at index. Unknown types yield Unavailable.
func Normalize(l Lesson, index int) Normalized {
	switch l.LessonType() {
	case TypeChoice:
		return NormalizeChoice(l.Content, index)
	case TypeMatch:
		return NormalizeMatch(l.Content)
	case TypeMath:
		return NormalizeMath(l.Content, index)
	case TypeShopping:
		return NormalizeShopping(l.Content)
	default:
		return Unavailable{}
	}
}

// Available reports whether a normalized model can be played.
func Available(n Normalized) bool {
	return n != nil && !n.Empty() && n.Len() > 0
}
