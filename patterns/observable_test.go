package patterns_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/lazyquant/patterns"
)

func TestNotifyCallsUpdateOnce(t *testing.T) {
	s, _ := newTestSettings()
	a := patterns.NewObservable(patterns.WithSettings(s))
	o := &countingObserver{}

	assert.True(t, a.RegisterObserver(o))
	a.NotifyObservers()
	assert.Equal(t, 1, o.updates)
}

func TestRegisterIsIdempotent(t *testing.T) {
	s, _ := newTestSettings()
	a := patterns.NewObservable(patterns.WithSettings(s))
	o := &countingObserver{}

	assert.True(t, a.RegisterObserver(o))
	assert.False(t, a.RegisterObserver(o))
	assert.Equal(t, 1, a.Len())

	a.NotifyObservers()
	assert.Equal(t, 1, o.updates)
}

func TestUnregisterObserver(t *testing.T) {
	s, _ := newTestSettings()
	a := patterns.NewObservable(patterns.WithSettings(s))
	o := &countingObserver{}

	assert.False(t, a.UnregisterObserver(o), "removing a non-member is not an error")
	a.RegisterObserver(o)
	assert.True(t, a.UnregisterObserver(o))

	a.NotifyObservers()
	assert.Equal(t, 0, o.updates)
	assert.False(t, a.RegisterObserver(nil))
}

func TestObserversKeepRegistrationOrder(t *testing.T) {
	s, _ := newTestSettings()
	a := patterns.NewObservable(patterns.WithSettings(s))

	var visited []int
	observers := make([]*countingObserver, 5)
	for i := range observers {
		i := i
		observers[i] = &countingObserver{onUpdate: func() error {
			visited = append(visited, i)
			return nil
		}}
		a.RegisterObserver(observers[i])
	}
	a.UnregisterObserver(observers[2])

	a.NotifyObservers()
	a.NotifyObservers()
	assert.Equal(t, []int{0, 1, 3, 4, 0, 1, 3, 4}, visited)

	got := a.Observers()
	require.Len(t, got, 4)
	assert.Same(t, observers[0], got[0])
	assert.Same(t, observers[4], got[3])
}

func TestFailingObserverDoesNotStopDelivery(t *testing.T) {
	s, spy := newTestSettings()
	a := patterns.NewObservable(patterns.WithSettings(s))

	first := &countingObserver{}
	failing := &countingObserver{onUpdate: func() error {
		return errors.New("boom")
	}}
	panicking := &countingObserver{onUpdate: func() error {
		panic("worse")
	}}
	last := &countingObserver{}
	for _, o := range []*countingObserver{first, failing, panicking, last} {
		a.RegisterObserver(o)
	}

	assert.NotPanics(t, a.NotifyObservers)
	assert.Equal(t, 1, first.updates)
	assert.Equal(t, 1, failing.updates)
	assert.Equal(t, 1, panicking.updates)
	assert.Equal(t, 1, last.updates)
	assert.Equal(t, 2, spy.count(slog.LevelError, "observer update failed"))
}

func TestObserverUnregisteredDuringNotification(t *testing.T) {
	s, _ := newTestSettings()
	a := patterns.NewObservable(patterns.WithSettings(s))

	second := &countingObserver{}
	first := &countingObserver{onUpdate: func() error {
		a.UnregisterObserver(second)
		return nil
	}}
	a.RegisterObserver(first)
	a.RegisterObserver(second)

	a.NotifyObservers()
	assert.Equal(t, 1, first.updates)
	assert.Equal(t, 0, second.updates)
}

func TestWatcherKeepsBothSidesConsistent(t *testing.T) {
	s, _ := newTestSettings()
	a := patterns.NewObservable(patterns.WithSettings(s))
	b := patterns.NewObservable(patterns.WithSettings(s))
	o := &countingObserver{}
	w := patterns.NewWatcher(o, patterns.WithSettings(s))

	assert.True(t, w.RegisterWith(a))
	assert.False(t, w.RegisterWith(a))
	assert.True(t, w.RegisterWith(b))
	assert.False(t, w.RegisterWith(nil))

	assert.Equal(t, []*patterns.Observable{a, b}, w.Observables())
	assert.Equal(t, []patterns.Observer{o}, a.Observers())

	t.Run("unregister with one", func(t *testing.T) {
		assert.True(t, w.UnregisterWith(a))
		assert.False(t, w.UnregisterWith(a))
		assert.Equal(t, 0, a.Len())
		assert.Equal(t, []*patterns.Observable{b}, w.Observables())
	})

	t.Run("unregister with all", func(t *testing.T) {
		w.RegisterWith(a)
		w.UnregisterWithAll()
		assert.Empty(t, w.Observables())
		assert.Equal(t, 0, a.Len())
		assert.Equal(t, 0, b.Len())

		a.NotifyObservers()
		b.NotifyObservers()
		assert.Equal(t, 0, o.updates)
	})

	t.Run("observable side unregister updates watcher", func(t *testing.T) {
		w.RegisterWith(a)
		a.UnregisterObserver(o)
		assert.Empty(t, w.Observables())
	})
}

func TestObservableDispose(t *testing.T) {
	s, _ := newTestSettings()
	a := patterns.NewObservable(patterns.WithSettings(s))
	o := &countingObserver{}
	w := patterns.NewWatcher(o, patterns.WithSettings(s))
	w.RegisterWith(a)

	a.Dispose()
	assert.Equal(t, 0, a.Len())
	assert.Empty(t, w.Observables())

	a.NotifyObservers()
	assert.Equal(t, 0, o.updates)
}

func TestObservableIdentity(t *testing.T) {
	a := patterns.NewObservable()
	b := patterns.NewObservable()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Same(t, a, a.AsObservable())
	assert.Same(t, patterns.DefaultSettings(), a.Settings())
}
