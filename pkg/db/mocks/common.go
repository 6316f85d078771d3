// Package mocks provides hand-written mock implementations of
// pkg/db interfaces for testing.
package mocks

type CallLog[T any] []T

func (c CallLog[T]) Times() int {
	return len(c)
}
