package domain

// WindowOrder fixes which end of a Window receives new items.
type WindowOrder int

const (
	// NewestFirst prepends; index 0 is the most recent item.
	NewestFirst WindowOrder = iota
	// Chronological appends; the last index is the most recent item.
	Chronological
)

// Window is a fixed-capacity ordered sequence that evicts its oldest item.
// It is a value: Push returns a new Window and never touches the receiver's
// backing array, so older copies stay valid.
type Window[T any] struct {
	items    []T
	capacity int
	order    WindowOrder
}

// NewWindow returns an empty window. A capacity below 1 is treated as 1.
func NewWindow[T any](capacity int, order WindowOrder) Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return Window[T]{capacity: capacity, order: order}
}

// Push inserts item at the window's insertion end using the window's own
// capacity.
func (w Window[T]) Push(item T) Window[T] {
	return Push(w, item, w.capacity)
}

// Push inserts item at w's insertion end and trims the opposite end so the
// result holds at most capacity items. Each push copies the kept items,
// so it costs O(capacity).
func Push[T any](w Window[T], item T, capacity int) Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	keep := min(len(w.items), capacity-1)
	next := make([]T, 0, keep+1)
	if w.order == NewestFirst {
		next = append(next, item)
		next = append(next, w.items[:keep]...)
	} else {
		next = append(next, w.items[len(w.items)-keep:]...)
		next = append(next, item)
	}
	return Window[T]{items: next, capacity: capacity, order: w.order}
}

// Fill returns a window with the same capacity and order holding items,
// which must already be in the window's order. Only the newest capacity
// items are kept.
func (w Window[T]) Fill(items []T) Window[T] {
	n := min(len(items), w.capacity)
	next := make([]T, n)
	if w.order == NewestFirst {
		copy(next, items[:n])
	} else {
		copy(next, items[len(items)-n:])
	}
	return Window[T]{items: next, capacity: w.capacity, order: w.order}
}

// Items returns a copy of the window contents in window order.
func (w Window[T]) Items() []T {
	out := make([]T, len(w.items))
	copy(out, w.items)
	return out
}

// At returns the i-th item in window order.
func (w Window[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(w.items) {
		var zero T
		return zero, false
	}
	return w.items[i], true
}

func (w Window[T]) Len() int           { return len(w.items) }
func (w Window[T]) Cap() int           { return w.capacity }
func (w Window[T]) Order() WindowOrder { return w.order }
