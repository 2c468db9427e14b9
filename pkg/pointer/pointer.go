// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer builds and reads optional values.

The catalog decodes optional request fields (external ids, cover URLs,
per-kind detail fields, tracking ratings) into pointers, where nil means
"not supplied". These helpers keep the nil checks out of validation and
patch code.
*/
package pointer

// To returns a pointer to v, e.g. pointer.To(tracking.PriorityHigh).
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, or returns the zero value when p is nil. Validation uses
// it so a missing external id reads as "".
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Fallback dereferences p, or returns fallback when p is nil.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
