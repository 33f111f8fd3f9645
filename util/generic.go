// util/generic.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

// Select returns a if sel is true and b otherwise.
func Select[T any](sel bool, a, b T) T {
	if sel {
		return a
	} else {
		return b
	}
}

// ReduceMap applies reduce to each key/value pair of m, threading the
// result through; the iteration order is unspecified.
func ReduceMap[K comparable, V any, R any](m map[K]V, reduce func(K, V, R) R, initial R) R {
	result := initial
	for k, v := range m {
		result = reduce(k, v, result)
	}
	return result
}

// FindIf returns the index of the first element of s for which pred
// returns true, or -1 if there is none.
func FindIf[V any](s []V, pred func(V) bool) int {
	for i, v := range s {
		if pred(v) {
			return i
		}
	}
	return -1
}
