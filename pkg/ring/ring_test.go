package ring

import (
	"testing"
)

func TestBufferFillAndEvict(t *testing.T) {
	b := New[int](3)
	if b.Cap() != 3 || b.Len() != 0 {
		t.Fatalf("Cap=%d Len=%d, want 3 and 0", b.Cap(), b.Len())
	}

	b.Append(1)
	b.Append(2)
	if got := b.Items(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("Items() = %v, want [1 2]", got)
	}

	b.Append(3)
	b.Append(4) // evicts 1
	b.Append(5) // evicts 2
	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}
	if got := b.Items(); len(got) != 3 || got[0] != 3 || got[1] != 4 || got[2] != 5 {
		t.Fatalf("Items() = %v, want [3 4 5]", got)
	}
}

func TestBufferLast(t *testing.T) {
	b := New[string](4)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		b.Append(s)
	}
	// buffer now holds b c d e

	if got := b.Last(2); len(got) != 2 || got[0] != "d" || got[1] != "e" {
		t.Fatalf("Last(2) = %v, want [d e]", got)
	}
	if got := b.Last(10); len(got) != 4 || got[0] != "b" {
		t.Fatalf("Last(10) = %v, want all 4 oldest-first", got)
	}
	if got := b.Last(0); got != nil {
		t.Fatalf("Last(0) = %v, want nil", got)
	}
}

func TestBufferItemsIsACopy(t *testing.T) {
	b := New[int](2)
	b.Append(1)
	items := b.Items()
	items[0] = 99
	if got := b.Items()[0]; got != 1 {
		t.Fatalf("buffer mutated through Items copy: got %d, want 1", got)
	}
}

func TestBufferTinyCapacity(t *testing.T) {
	b := New[int](0) // coerced to 1
	b.Append(1)
	b.Append(2)
	if got := b.Items(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("Items() = %v, want [2]", got)
	}
}
