package reconcile

import "netreconciler/internal/models"

// valuesEqual groups present values. Strings compare by text and lists by
// element multiset. Every other shape is never equal to anything, not even
// an identical copy of itself: numbers, booleans and nested objects each
// form their own value group.
func valuesEqual(a, b models.Value) bool {
	if as, ok := a.Str(); ok {
		bs, ok := b.Str()
		return ok && as == bs
	}

	if al, ok := a.Items(); ok {
		bl, ok := b.Items()
		return ok && sameMultiset(al, bl)
	}

	return false
}

// sameMultiset reports whether a and b hold the same elements with the same
// multiplicities, ignoring order.
func sameMultiset[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}

	counts := make(map[T]int, len(a))
	for _, item := range a {
		counts[item]++
	}
	for _, item := range b {
		if counts[item] == 0 {
			return false
		}
		counts[item]--
	}

	return true
}
