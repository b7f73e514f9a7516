// Package patterns holds the change propagation core shared by every stateful
// entity in lazyquant: observables that fan out notifications, observers that
// react to them, a coordinator able to suspend and coalesce delivery, and a
// lazy object that caches a derived result until one of its inputs changes.
//
// Everything here is single threaded. Notifications are delivered
// synchronously and the only hazard handled is reentrancy.
package patterns

import (
	"github.com/google/uuid"
)

// Observer reacts to a change notification.
type Observer interface {
	Update() error
}

// Source is anything that exposes an Observable. Structs embedding
// *Observable satisfy it automatically.
type Source interface {
	AsObservable() *Observable
}

// Option configures observables, watchers and lazy objects.
type Option func(*options)

type options struct {
	settings *Settings
}

// WithSettings binds an entity to a coordinator other than DefaultSettings.
func WithSettings(s *Settings) Option {
	return func(o *options) {
		if s != nil {
			o.settings = s
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{settings: DefaultSettings()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Observable holds the observers it must notify. It does not own them.
type Observable struct {
	id        uuid.UUID
	settings  *Settings
	observers *orderedSet[Observer]

	// watchers registered through Watcher.RegisterWith, kept so that either
	// side of the relation can tear it down.
	watchers map[Observer]*Watcher
}

func NewObservable(opts ...Option) *Observable {
	o := buildOptions(opts)
	return &Observable{
		id:        uuid.New(),
		settings:  o.settings,
		observers: newOrderedSet[Observer](),
		watchers:  map[Observer]*Watcher{},
	}
}

func (o *Observable) ID() uuid.UUID {
	return o.id
}

func (o *Observable) AsObservable() *Observable {
	return o
}

func (o *Observable) Settings() *Settings {
	return o.settings
}

// RegisterObserver adds obs to the notify set. It reports whether obs was not
// already a member.
func (o *Observable) RegisterObserver(obs Observer) bool {
	if obs == nil {
		return false
	}
	return o.observers.add(obs)
}

// UnregisterObserver removes obs from the notify set. Removing a non-member is
// not an error.
func (o *Observable) UnregisterObserver(obs Observer) bool {
	if w, ok := o.watchers[obs]; ok {
		delete(o.watchers, obs)
		w.observables.remove(o)
	}
	return o.observers.remove(obs)
}

// Observers returns the registered observers in registration order.
func (o *Observable) Observers() []Observer {
	return o.observers.snapshot()
}

func (o *Observable) Len() int {
	return o.observers.len()
}

// NotifyObservers delivers Update to every registered observer, or queues
// them on the coordinator when delivery is suspended. A failing observer is
// logged and does not stop delivery to the others.
func (o *Observable) NotifyObservers() {
	if o.observers.len() == 0 {
		return
	}

	s := o.settings
	if !s.updatesEnabled {
		if s.updatesDeferred {
			s.enqueue(o.observers.order...)
			s.collector().IncrementCounter(MetricNotifications, labelsDeferred)
		} else {
			s.collector().IncrementCounter(MetricNotifications, labelsDropped)
		}
		return
	}

	s.collector().IncrementCounter(MetricNotifications, labelsImmediate)
	for _, obs := range o.observers.snapshot() {
		// an earlier observer may have unregistered this one
		if !o.observers.contains(obs) {
			continue
		}
		s.deliver(obs)
	}
}

// Dispose detaches every observer from this observable, including the
// bookkeeping held by their watchers.
func (o *Observable) Dispose() {
	for obs, w := range o.watchers {
		w.observables.remove(o)
		delete(o.watchers, obs)
	}
	o.observers.clear()
}
