package indexes

import (
	"fmt"
	"strings"
	"time"

	"github.com/delaneyj/lazyquant/patterns"
)

// Index is a named view on the registry. It observes the registry notifier of
// its name and is itself observable.
type Index struct {
	*patterns.Observable
	watcher *patterns.Watcher
	name    string
	manager *IndexManager
}

func NewIndex(name string, manager *IndexManager) *Index {
	idx := &Index{
		Observable: patterns.NewObservable(patterns.WithSettings(manager.settings)),
		name:       strings.ToUpper(name),
		manager:    manager,
	}
	idx.watcher = patterns.NewWatcher(idx, patterns.WithSettings(manager.settings))
	idx.watcher.RegisterWith(manager.Notifier(name))
	return idx
}

func (i *Index) Update() error {
	i.NotifyObservers()
	return nil
}

func (i *Index) Name() string {
	return i.name
}

func (i *Index) AddFixing(date time.Time, value float64, overwrite bool) error {
	return i.manager.AddFixing(i.name, date, value, overwrite)
}

func (i *Index) Fixing(date time.Time) (float64, error) {
	return i.manager.Fixing(i.name, date)
}

func (i *Index) Fixings() []Fixing {
	return i.manager.Fixings(i.name)
}

func (i *Index) ClearFixings() {
	i.manager.ClearFixings(i.name)
}

func (i *Index) Dispose() {
	i.watcher.Dispose()
	i.Observable.Dispose()
}

// FixingAverage is the arithmetic mean of the fixings of an index between two
// dates, inclusive.
type FixingAverage struct {
	*patterns.LazyObject
	index    *Index
	from, to time.Time

	value float64
	count int
}

func NewFixingAverage(index *Index, from, to time.Time) *FixingAverage {
	a := &FixingAverage{
		index: index,
		from:  day(from),
		to:    day(to),
	}
	a.LazyObject = patterns.NewLazyObject(a, patterns.WithSettings(index.Settings()))
	a.RegisterWith(index)
	return a
}

func (a *FixingAverage) PerformCalculations() error {
	sum, n := 0.0, 0
	for _, f := range a.index.Fixings() {
		if f.Date.Before(a.from) || f.Date.After(a.to) {
			continue
		}
		sum += f.Value
		n++
	}
	if n == 0 {
		return fmt.Errorf("%w: %s between %s and %s", ErrMissingFixing, a.index.name, a.from.Format(time.DateOnly), a.to.Format(time.DateOnly))
	}
	a.value, a.count = sum/float64(n), n
	return nil
}

func (a *FixingAverage) Value() (float64, error) {
	if err := a.Calculate(); err != nil {
		return 0, err
	}
	return a.value, nil
}

// Count is the number of fixings behind the last calculated average.
func (a *FixingAverage) Count() int {
	return a.count
}
