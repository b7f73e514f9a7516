package quotes

import (
	"github.com/delaneyj/lazyquant/patterns"
)

// Handle is a shared indirection to a quote. Observers of the handle hear
// about changes of the linked quote and about relinking.
type Handle struct {
	*patterns.Observable
	watcher *patterns.Watcher
	current Quote
}

func NewHandle(q Quote, opts ...patterns.Option) *Handle {
	h := &Handle{
		Observable: patterns.NewObservable(opts...),
	}
	h.watcher = patterns.NewWatcher(h, opts...)
	h.linkTo(q)
	return h
}

// Update forwards a notification from the linked quote.
func (h *Handle) Update() error {
	h.NotifyObservers()
	return nil
}

func (h *Handle) Empty() bool {
	return h.current == nil
}

func (h *Handle) Current() (Quote, error) {
	if h.current == nil {
		return nil, ErrEmptyHandle
	}
	return h.current, nil
}

func (h *Handle) Value() (float64, error) {
	q, err := h.Current()
	if err != nil {
		return 0, err
	}
	return q.Value()
}

func (h *Handle) IsValid() bool {
	return h.current != nil && h.current.IsValid()
}

func (h *Handle) linkTo(q Quote) bool {
	if q == h.current {
		return false
	}
	if h.current != nil {
		h.watcher.UnregisterWith(h.current)
	}
	h.current = q
	if q != nil {
		h.watcher.RegisterWith(q)
	}
	return true
}

// Dispose releases the linked quote and the handle's own observers.
func (h *Handle) Dispose() {
	h.watcher.Dispose()
	h.Observable.Dispose()
	h.current = nil
}

// RelinkableHandle is a Handle whose target can be swapped; every observer of
// the handle is notified on relink.
type RelinkableHandle struct {
	*Handle
}

func NewRelinkableHandle(q Quote, opts ...patterns.Option) *RelinkableHandle {
	return &RelinkableHandle{Handle: NewHandle(q, opts...)}
}

// LinkTo points the handle at q. Linking to nil empties it.
func (h *RelinkableHandle) LinkTo(q Quote) {
	if h.linkTo(q) {
		h.NotifyObservers()
	}
}
