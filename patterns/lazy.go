package patterns

import "fmt"

// Calculator performs the actual recomputation of a lazy object. It is only
// ever invoked through LazyObject.Calculate or LazyObject.Recalculate.
type Calculator interface {
	PerformCalculations() error
}

// CalculatorFunc adapts a plain function to Calculator.
type CalculatorFunc func() error

func (f CalculatorFunc) PerformCalculations() error {
	return f()
}

// LazyObject observes its inputs and is observed by its dependents. Its cached
// result is recomputed on demand, only after an input notified a change.
//
// Collaborators embed *LazyObject, create it with themselves as Calculator and
// call RegisterWith on each input in their constructor.
type LazyObject struct {
	*Observable
	*Watcher

	calc Calculator

	calculated    bool
	frozen        bool
	alwaysForward bool
	updating      bool

	// set when a notification arrived while frozen
	missedWhileFrozen bool
}

func NewLazyObject(calc Calculator, opts ...Option) *LazyObject {
	l := &LazyObject{
		Observable: NewObservable(opts...),
		calc:       calc,
	}
	l.Watcher = NewWatcher(l, opts...)
	l.alwaysForward = l.Observable.settings.forwardAll
	return l
}

// Update invalidates the cache and forwards the notification to dependents.
// Once the cache is invalid, further notifications are only forwarded under
// the always-forward policy. A frozen object keeps its cache and forwards
// nothing until it is unfrozen.
func (l *LazyObject) Update() error {
	if l.updating {
		return fmt.Errorf("%w: %T", ErrRecursiveNotification, l.calc)
	}
	l.updating = true
	defer func() {
		l.updating = false
	}()

	if l.frozen {
		// an invalid cache under the first-only policy has nothing to forward
		if l.calculated || l.alwaysForward {
			l.missedWhileFrozen = true
		}
		return nil
	}

	if l.calculated || l.alwaysForward {
		l.calculated = false
		l.NotifyObservers()
	}
	return nil
}

// Calculate runs the calculator unless the cache is valid or the object is
// frozen. The cache is marked valid before the calculator runs so that a
// calculation reading back its own results does not recurse; on failure it
// is marked invalid again.
func (l *LazyObject) Calculate() error {
	if l.calculated || l.frozen {
		return nil
	}

	l.calculated = true
	ok := false
	defer func() {
		if !ok {
			l.calculated = false
		}
	}()

	if err := l.calc.PerformCalculations(); err != nil {
		return fmt.Errorf("%w: %w", ErrCalculationFailed, err)
	}
	ok = true
	return nil
}

// Recalculate forces a calculation even on a valid or frozen object. The
// frozen flag is restored afterwards and dependents are notified whether or
// not the calculation succeeded.
func (l *LazyObject) Recalculate() error {
	wasFrozen := l.frozen
	l.calculated = false
	l.frozen = false

	var err error
	defer func() {
		l.frozen = wasFrozen
		if err == nil {
			l.missedWhileFrozen = false
			l.collector().IncrementCounter(MetricRecalculations, labelsOK)
		} else {
			l.collector().IncrementCounter(MetricRecalculations, labelsError)
		}
		l.NotifyObservers()
	}()

	err = l.Calculate()
	return err
}

// Freeze makes the object keep its current results regardless of changes to
// its inputs.
func (l *LazyObject) Freeze() {
	l.frozen = true
}

// Unfreeze lifts Freeze. If inputs changed meanwhile, the cache is dropped
// and dependents are notified.
func (l *LazyObject) Unfreeze() {
	if !l.frozen {
		return
	}
	l.frozen = false

	if l.missedWhileFrozen {
		l.missedWhileFrozen = false
		l.calculated = false
		l.NotifyObservers()
	}
}

func (l *LazyObject) ForwardFirstNotificationOnly() {
	l.alwaysForward = false
}

func (l *LazyObject) AlwaysForwardNotifications() {
	l.alwaysForward = true
}

func (l *LazyObject) IsCalculated() bool {
	return l.calculated
}

func (l *LazyObject) IsFrozen() bool {
	return l.frozen
}

func (l *LazyObject) ForwardsAllNotifications() bool {
	return l.alwaysForward
}

// Dispose releases the object from its inputs and its dependents.
func (l *LazyObject) Dispose() {
	l.Watcher.Dispose()
	l.Observable.Dispose()
}

func (l *LazyObject) collector() MetricsCollector {
	return l.Observable.settings.collector()
}
