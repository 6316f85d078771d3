package cmp_test

import (
	"testing"

	"github.com/tigrlab/niviz-rater/pkg/utils/cmp"
)

func TestSliceEq(t *testing.T) {
	t.Run("equal slices match", func(t *testing.T) {
		if !cmp.SliceEq([]string{"a", "b"}, []string{"a", "b"}) {
			t.Error("a == b, unexpectedly not")
		}
	})
	t.Run("order matters", func(t *testing.T) {
		if cmp.SliceEq([]string{"a", "b"}, []string{"b", "a"}) {
			t.Error("a != b, unexpectedly")
		}
	})
	t.Run("length matters", func(t *testing.T) {
		if cmp.SliceEq([]string{"a"}, []string{"a", "a"}) {
			t.Error("a != b, unexpectedly")
		}
	})
}

func TestSliceContentEq(t *testing.T) {
	t.Run("order does not matter", func(t *testing.T) {
		if !cmp.SliceContentEq([]int{1, 2, 3}, []int{3, 1, 2}) {
			t.Error("a == b, unexpectedly not")
		}
	})
	t.Run("multiplicity matters", func(t *testing.T) {
		if cmp.SliceContentEq([]int{1, 1, 2}, []int{1, 2, 2}) {
			t.Error("a != b, unexpectedly")
		}
	})
}

func TestMapEq(t *testing.T) {
	t.Run("equal maps match", func(t *testing.T) {
		a := map[string]int{"x": 1, "y": 2}
		b := map[string]int{"y": 2, "x": 1}
		if !cmp.MapEq(a, b) {
			t.Error("a == b, unexpectedly not")
		}
	})
	t.Run("differing values do not match", func(t *testing.T) {
		a := map[string]int{"x": 1}
		b := map[string]int{"x": 2}
		if cmp.MapEq(a, b) {
			t.Error("a != b, unexpectedly")
		}
	})
	t.Run("differing keys do not match", func(t *testing.T) {
		a := map[string]int{"x": 1}
		b := map[string]int{"y": 1}
		if cmp.MapEq(a, b) {
			t.Error("a != b, unexpectedly")
		}
	})
}
