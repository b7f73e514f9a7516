package patterns

// Watcher is the observer side of the relation: it remembers which
// observables its owner registered with so they can be released in bulk.
type Watcher struct {
	owner       Observer
	settings    *Settings
	observables *orderedSet[*Observable]
}

func NewWatcher(owner Observer, opts ...Option) *Watcher {
	o := buildOptions(opts)
	return &Watcher{
		owner:       owner,
		settings:    o.settings,
		observables: newOrderedSet[*Observable](),
	}
}

// RegisterWith registers the owner with src and records the relation. It
// reports whether the relation is new.
func (w *Watcher) RegisterWith(src Source) bool {
	obs := asObservable(src)
	if obs == nil {
		return false
	}
	obs.watchers[w.owner] = w
	obs.RegisterObserver(w.owner)
	return w.observables.add(obs)
}

// UnregisterWith releases a single relation.
func (w *Watcher) UnregisterWith(src Source) bool {
	obs := asObservable(src)
	if obs == nil || !w.observables.contains(obs) {
		return false
	}
	return obs.UnregisterObserver(w.owner)
}

// UnregisterWithAll releases every relation held by the owner.
func (w *Watcher) UnregisterWithAll() {
	for _, obs := range w.observables.snapshot() {
		obs.UnregisterObserver(w.owner)
	}
	w.observables.clear()
}

// Observables returns the observables the owner is registered with.
func (w *Watcher) Observables() []*Observable {
	return w.observables.snapshot()
}

// Dispose tears down the owner: relations are released and any pending
// deferred notification for it is dropped, so a later flush never reaches it.
func (w *Watcher) Dispose() {
	for _, obs := range w.observables.snapshot() {
		if obs.settings != w.settings {
			obs.settings.dequeue(w.owner)
		}
	}
	w.UnregisterWithAll()
	w.settings.dequeue(w.owner)
}

func asObservable(src Source) *Observable {
	if src == nil {
		return nil
	}
	return src.AsObservable()
}
