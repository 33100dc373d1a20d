// Package util holds small helpers shared across packages.
package util

// Stack is a generic LIFO container used to track navigation history.
type Stack[T any] struct {
	items []T
}

// Push places item on top of the stack.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes and returns the top item. The zero value comes back when
// the stack is empty.
func (s *Stack[T]) Pop() (item T) {
	last := len(s.items) - 1
	if last < 0 {
		return
	}
	item = s.items[last]
	s.items = s.items[:last]
	return
}

// Peek returns the top item without removing it. The zero value comes
// back when the stack is empty.
func (s *Stack[T]) Peek() (item T) {
	if len(s.items) == 0 {
		return
	}
	return s.items[len(s.items)-1]
}

// Len reports how many items the stack holds.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Clear drops every item.
func (s *Stack[T]) Clear() {
	s.items = nil
}
