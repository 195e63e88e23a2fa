// Package ring provides a bounded append-only buffer with
// oldest-evicted-first semantics, used for the dashboard history
// windows. Not safe for concurrent use; callers guard it.
package ring

// Buffer keeps the last cap appended values.
type Buffer[T any] struct {
	data  []T
	start int
	size  int
}

// New creates a buffer holding at most capacity items. Capacity must be
// positive.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer[T]{data: make([]T, capacity)}
}

// Append adds v, evicting the oldest value once full.
func (b *Buffer[T]) Append(v T) {
	if b.size < len(b.data) {
		b.data[(b.start+b.size)%len(b.data)] = v
		b.size++
		return
	}
	b.data[b.start] = v
	b.start = (b.start + 1) % len(b.data)
}

// Len returns the number of stored items.
func (b *Buffer[T]) Len() int { return b.size }

// Cap returns the maximum number of items retained.
func (b *Buffer[T]) Cap() int { return len(b.data) }

// Items returns a copy ordered oldest to newest.
func (b *Buffer[T]) Items() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.data[(b.start+i)%len(b.data)]
	}
	return out
}

// Last returns a copy of the newest n items, oldest first. n larger
// than Len returns everything.
func (b *Buffer[T]) Last(n int) []T {
	if n >= b.size {
		return b.Items()
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = b.data[(b.start+b.size-n+i)%len(b.data)]
	}
	return out
}
