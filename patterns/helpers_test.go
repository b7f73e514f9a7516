package patterns_test

import (
	"context"
	"log/slog"
	"sync"

	"github.com/delaneyj/lazyquant/patterns"
)

// logHandlerSpy captures log records so tests can assert on reported failures.
type logHandlerSpy struct {
	mu      sync.Mutex
	records []slog.Record
}

func (s *logHandlerSpy) Handle(_ context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *logHandlerSpy) Enabled(context.Context, slog.Level) bool { return true }
func (s *logHandlerSpy) WithAttrs([]slog.Attr) slog.Handler { return s }
func (s *logHandlerSpy) WithGroup(string) slog.Handler { return s }

func (s *logHandlerSpy) count(level slog.Level, msg string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.records {
		if r.Level == level && r.Message == msg {
			n++
		}
	}
	return n
}

func newTestSettings(opts ...patterns.SettingsOption) (*patterns.Settings, *logHandlerSpy) {
	spy := &logHandlerSpy{}
	opts = append([]patterns.SettingsOption{patterns.WithLogger(slog.New(spy))}, opts...)
	return patterns.NewSettings(opts...), spy
}

type countingObserver struct {
	updates  int
	onUpdate func() error
}

func (c *countingObserver) Update() error {
	c.updates++
	if c.onUpdate != nil {
		return c.onUpdate()
	}
	return nil
}

// quote is a minimal observable value.
type quote struct {
	*patterns.Observable
	value float64
}

func newQuote(s *patterns.Settings, v float64) *quote {
	return &quote{
		Observable: patterns.NewObservable(patterns.WithSettings(s)),
		value:      v,
	}
}

func (q *quote) set(v float64) {
	q.value = v
	q.NotifyObservers()
}

// doubler caches twice the value of its quote.
type doubler struct {
	*patterns.LazyObject
	q      *quote
	result float64
	runs   int
	fail   error
}

func newDoubler(s *patterns.Settings, q *quote) *doubler {
	d := &doubler{q: q}
	d.LazyObject = patterns.NewLazyObject(d, patterns.WithSettings(s))
	d.RegisterWith(q)
	return d
}

func (d *doubler) PerformCalculations() error {
	d.runs++
	if d.fail != nil {
		return d.fail
	}
	d.result = 2 * d.q.value
	return nil
}

func (d *doubler) get() (float64, error) {
	if err := d.Calculate(); err != nil {
		return 0, err
	}
	return d.result, nil
}

type metricsSpy struct {
	counters map[string]int
	values   map[string][]float64
}

func newMetricsSpy() *metricsSpy {
	return &metricsSpy{
		counters: map[string]int{},
		values:   map[string][]float64{},
	}
}

func (m *metricsSpy) IncrementCounter(metric string, labels map[string]string) {
	key := metric
	for _, v := range labels {
		key += ":" + v
	}
	m.counters[key]++
}

func (m *metricsSpy) RecordValue(metric string, value float64, _ map[string]string) {
	m.values[metric] = append(m.values[metric], value)
}
