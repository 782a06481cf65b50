// Package item provides item stacks and the per-item stack size limits.
package item

import (
	"fmt"

	"github.com/sarchlab/blockgen/ident"
)

// A Stack is a number of items of the same identity.
type Stack struct {
	Item  ident.ID `json:"item"`
	Count int      `json:"count"`
}

// Empty is the stack that holds nothing.
var Empty = Stack{}

// NewStack creates a stack of count items.
func NewStack(id ident.ID, count int) Stack {
	return Stack{Item: id, Count: count}
}

// IsEmpty returns true if the stack holds no item.
func (s Stack) IsEmpty() bool {
	return s.Count <= 0 || s.Item.IsAir()
}

// SameItem returns true if both stacks are non-empty and hold the same item.
func (s Stack) SameItem(o Stack) bool {
	if s.IsEmpty() || o.IsEmpty() {
		return false
	}

	return s.Item == o.Item
}

// WithCount returns a copy of the stack with a different count.
func (s Stack) WithCount(n int) Stack {
	if n <= 0 {
		return Empty
	}

	s.Count = n

	return s
}

// Split takes at most n items out of the stack.
func (s Stack) Split(n int) (taken, rest Stack) {
	if s.IsEmpty() || n <= 0 {
		return Empty, s
	}

	if n >= s.Count {
		return s, Empty
	}

	return s.WithCount(n), s.WithCount(s.Count - n)
}

func (s Stack) String() string {
	if s.IsEmpty() {
		return "empty"
	}

	return fmt.Sprintf("%dx%s", s.Count, s.Item)
}

// Accumulate merges produced items into a buffer. Items of the buffer's
// identity grow the buffer up to max and anything beyond max is dropped. Items
// of any other identity replace the buffer.
func Accumulate(buffer, produced Stack, max int) Stack {
	if produced.IsEmpty() {
		return buffer
	}

	if !buffer.SameItem(produced) {
		return produced.WithCount(min(produced.Count, max))
	}

	return buffer.WithCount(min(buffer.Count+produced.Count, max))
}
