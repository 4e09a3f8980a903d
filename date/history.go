package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
//
// The zero value is an empty history ready to use.
type History[T any] struct {
	days   []Date
	values []T
}

// search returns the index where day is, or should be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Append adds a point to the history.
//
// Existing value at that date is overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// First returns the earliest date and value in the history.
// If the history is empty, it returns zero values.
func (h *History[T]) First() (day Date, value T) {
	if len(h.days) == 0 {
		return Date{}, value
	}
	return h.days[0], h.values[0]
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero values.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, value
	}
	return h.days[last], h.values[last]
}

// Span returns the range from the first to the last day, empty if the history is.
func (h *History[T]) Span() Range {
	if len(h.days) == 0 {
		return Range{From: New(1, 1, 2), To: New(1, 1, 1)}
	}
	return Range{From: h.days[0], To: h.days[len(h.days)-1]}
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Within returns a new history with only the points inside r.
func (h *History[T]) Within(r Range) *History[T] {
	lo, _ := h.search(r.From)
	hi, found := h.search(r.To)
	if found {
		hi++
	}
	sub := new(History[T])
	if lo < hi {
		sub.days = slices.Clone(h.days[lo:hi])
		sub.values = slices.Clone(h.values[lo:hi])
	}
	return sub
}

// Clone returns an independent copy of the history.
func (h *History[T]) Clone() *History[T] {
	return &History[T]{days: slices.Clone(h.days), values: slices.Clone(h.values)}
}
