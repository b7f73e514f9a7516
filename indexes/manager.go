// Package indexes keeps historical fixings per index name and exposes them as
// observables, so that anything priced off an index is invalidated when its
// history changes.
package indexes

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/lazyquant/patterns"
)

var (
	ErrDuplicateFixing = errors.New("fixing already stored with a different value")
	ErrInvalidFixing   = errors.New("invalid fixing")
	ErrMissingFixing   = errors.New("missing fixing")
)

// Fixing is one observed value of an index.
type Fixing struct {
	Date  time.Time
	Value float64
}

type series struct {
	name     string
	notifier *patterns.Observable
	fixings  map[time.Time]float64
}

// IndexManager is the fixing registry. Names are case-insensitive.
type IndexManager struct {
	settings *patterns.Settings
	series   map[uint64]*series
}

// NewIndexManager binds every notifier it creates to s, or to the default
// settings when s is nil.
func NewIndexManager(s *patterns.Settings) *IndexManager {
	if s == nil {
		s = patterns.DefaultSettings()
	}
	return &IndexManager{
		settings: s,
		series:   map[uint64]*series{},
	}
}

func key(name string) uint64 {
	return xxhash.Sum64String(strings.ToUpper(name))
}

func day(d time.Time) time.Time {
	y, m, dd := d.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func (m *IndexManager) lookup(name string) *series {
	k := key(name)
	s, ok := m.series[k]
	if !ok {
		s = &series{
			name:     strings.ToUpper(name),
			notifier: patterns.NewObservable(patterns.WithSettings(m.settings)),
			fixings:  map[time.Time]float64{},
		}
		m.series[k] = s
	}
	return s
}

// Notifier returns the observable notified whenever the fixings of name change.
func (m *IndexManager) Notifier(name string) *patterns.Observable {
	return m.lookup(name).notifier
}

// AddFixing stores a fixing. Storing the same value twice is a no-op; a
// different value for a stored date needs overwrite.
func (m *IndexManager) AddFixing(name string, date time.Time, value float64, overwrite bool) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s %s", ErrInvalidFixing, name, date.Format(time.DateOnly))
	}

	s := m.lookup(name)
	date = day(date)
	if prev, ok := s.fixings[date]; ok {
		if prev == value {
			return nil
		}
		if !overwrite {
			return fmt.Errorf("%w: %s %s", ErrDuplicateFixing, s.name, date.Format(time.DateOnly))
		}
	}
	s.fixings[date] = value
	s.notifier.NotifyObservers()
	return nil
}

// AddFixings stores several fixings of one index. Observers are notified once,
// after every fixing was stored, even when one of them is rejected.
func (m *IndexManager) AddFixings(name string, fixings []Fixing, overwrite bool) error {
	return m.settings.Batch(func() error {
		var errs []error
		for _, f := range fixings {
			if err := m.AddFixing(name, f.Date, f.Value, overwrite); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Fixings returns the history of name in date order.
func (m *IndexManager) Fixings(name string) []Fixing {
	s, ok := m.series[key(name)]
	if !ok {
		return nil
	}
	out := make([]Fixing, 0, len(s.fixings))
	for d, v := range s.fixings {
		out = append(out, Fixing{Date: d, Value: v})
	}
	slices.SortFunc(out, func(a, b Fixing) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

func (m *IndexManager) Fixing(name string, date time.Time) (float64, error) {
	if s, ok := m.series[key(name)]; ok {
		if v, ok := s.fixings[day(date)]; ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %s", ErrMissingFixing, strings.ToUpper(name), date.Format(time.DateOnly))
}

func (m *IndexManager) HasHistory(name string) bool {
	s, ok := m.series[key(name)]
	return ok && len(s.fixings) > 0
}

// ClearFixings drops the history of name. Its notifier stays registered.
func (m *IndexManager) ClearFixings(name string) {
	s, ok := m.series[key(name)]
	if !ok || len(s.fixings) == 0 {
		return
	}
	clear(s.fixings)
	s.notifier.NotifyObservers()
}

// ClearAll drops every history, notifying once per affected observer.
func (m *IndexManager) ClearAll() {
	resume := m.settings.Suspend(true)
	defer resume()

	for _, s := range m.series {
		if len(s.fixings) == 0 {
			continue
		}
		clear(s.fixings)
		s.notifier.NotifyObservers()
	}
}

// Names lists the indexes holding fixings, sorted.
func (m *IndexManager) Names() []string {
	var names []string
	for _, s := range m.series {
		if len(s.fixings) > 0 {
			names = append(names, s.name)
		}
	}
	slices.Sort(names)
	return names
}
