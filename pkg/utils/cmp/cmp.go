// Package cmp holds small comparators used in tests.
package cmp

// SliceEq returns true when a and b have the same comparable
// elements in the same order.
func SliceEq[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SliceContentEq returns true when a and b have the same elements
// with the same multiplicity, ignoring order.
func SliceContentEq[T comparable](a, b []T) bool {
	counts := map[T]int{}
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// MapEq returns true when a and b have the same key-value pairs.
func MapEq[K, V comparable](a, b map[K]V) bool {
	return MapEqWith(a, b, func(x, y V) bool { return x == y })
}

// MapEqWith is MapEq with a custom value equality.
func MapEqWith[K comparable, V any](a, b map[K]V, eq func(V, V) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !eq(av, bv) {
			return false
		}
	}
	return true
}
