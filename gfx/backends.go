package gfx

import "fmt"

//BackendList is the non-owning registry an API keeps of its live backends of
//one kind. Iteration follows creation order.
type BackendList[T comparable] struct {
	items []T
}

func (l *BackendList[T]) Add(b T) {
	for _, it := range l.items {
		if it == b {
			panic(fmt.Sprintf("gfx: backend %v registered twice", b))
		}
	}
	l.items = append(l.items, b)
}

//Remove unregisters b, removing a backend the list does not hold is a bug
func (l *BackendList[T]) Remove(b T) {
	for i, it := range l.items {
		if it == b {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("gfx: backend %v is not registered", b))
}

func (l *BackendList[T]) Contains(b T) bool {
	for _, it := range l.items {
		if it == b {
			return true
		}
	}
	return false
}

func (l *BackendList[T]) Len() int {
	return len(l.items)
}

//First returns the oldest live backend
func (l *BackendList[T]) First() (T, bool) {
	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	return l.items[0], true
}

//Items returns a snapshot safe to iterate while the list changes
func (l *BackendList[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

//Drain empties the list and returns what it held
func (l *BackendList[T]) Drain() []T {
	out := l.items
	l.items = nil
	return out
}
