package mutation

import "sync"

// Form tracks the state of an edit form around a mutation: whether it is
// open, which item it edits and the last submission error. Its Hooks close
// the form on success and keep it open with the error on failure.
type Form[T any] struct {
	mu     sync.Mutex
	open   bool
	target *T
	err    error
}

// Open opens the form for a new item.
func (f *Form[T]) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open, f.target, f.err = true, nil, nil
}

// Edit opens the form for an existing item.
func (f *Form[T]) Edit(item T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open, f.target, f.err = true, &item, nil
}

// Close closes the form and clears the edit target.
func (f *Form[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open, f.target, f.err = false, nil, nil
}

func (f *Form[T]) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Target returns the item being edited, if any.
func (f *Form[T]) Target() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.target == nil {
		var zero T
		return zero, false
	}
	return *f.target, true
}

// Err is the error of the last failed submission.
func (f *Form[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Hooks returns mutation hooks bound to the form, chaining the optional
// caller hooks after the form's own handling.
func (f *Form[T]) Hooks(next Hooks[T]) Hooks[T] {
	return Hooks[T]{
		OnSuccess: func(v T) {
			f.Close()
			if next.OnSuccess != nil {
				next.OnSuccess(v)
			}
		},
		OnError: func(err error) {
			f.mu.Lock()
			f.err = err
			f.mu.Unlock()
			if next.OnError != nil {
				next.OnError(err)
			}
		},
	}
}
