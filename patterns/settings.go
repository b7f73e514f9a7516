package patterns

import (
	"fmt"
	"log/slog"
)

// Settings is the notification coordinator. It can suspend delivery for every
// observable bound to it and, in deferred mode, coalesce the suspended
// notifications into a single Update per observer when delivery resumes.
type Settings struct {
	updatesEnabled  bool
	updatesDeferred bool

	pending *orderedSet[Observer]
	// flushes in progress, innermost last
	draining []*orderedSet[Observer]

	logger     Logger
	metrics    MetricsCollector
	forwardAll bool
}

// SettingsOption configures a Settings.
type SettingsOption func(*Settings)

func WithLogger(l Logger) SettingsOption {
	return func(s *Settings) {
		s.logger = l
	}
}

func WithMetrics(m MetricsCollector) SettingsOption {
	return func(s *Settings) {
		s.metrics = m
	}
}

// WithForwardAllNotifications sets the forwarding policy new lazy objects
// start with.
func WithForwardAllNotifications(forward bool) SettingsOption {
	return func(s *Settings) {
		s.forwardAll = forward
	}
}

func NewSettings(opts ...SettingsOption) *Settings {
	s := &Settings{
		updatesEnabled: true,
		pending:        newOrderedSet[Observer](),
	}
	s.Configure(opts...)
	return s
}

var defaultSettings = NewSettings()

// DefaultSettings returns the process-wide coordinator used by entities that
// were not given one explicitly.
func DefaultSettings() *Settings {
	return defaultSettings
}

func (s *Settings) Configure(opts ...SettingsOption) {
	for _, opt := range opts {
		opt(s)
	}
}

func (s *Settings) log() Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}

func (s *Settings) collector() MetricsCollector {
	if s.metrics == nil {
		return noopMetrics{}
	}
	return s.metrics
}

// DisableUpdates suspends delivery. With deferred set, notifications are
// queued for the next EnableUpdates; otherwise they are dropped.
func (s *Settings) DisableUpdates(deferred bool) {
	s.updatesEnabled = false
	s.updatesDeferred = deferred
}

// EnableUpdates resumes delivery and flushes the queue: every distinct
// observer queued so far gets exactly one Update. Observers queued while the
// flush runs are left for the next one.
func (s *Settings) EnableUpdates() {
	s.updatesEnabled = true
	s.updatesDeferred = false

	if s.pending.len() == 0 {
		return
	}

	batch := s.pending
	s.pending = newOrderedSet[Observer]()
	s.draining = append(s.draining, batch)
	defer func() {
		s.draining = s.draining[:len(s.draining)-1]
	}()

	s.log().Debug("flushing deferred notifications", "observers", batch.len())
	s.collector().RecordValue(MetricFlushSize, float64(batch.len()), nil)

	for _, obs := range batch.snapshot() {
		// disposed during the flush
		if !batch.contains(obs) {
			continue
		}
		s.deliver(obs)
	}
}

func (s *Settings) UpdatesEnabled() bool {
	return s.updatesEnabled
}

func (s *Settings) UpdatesDeferred() bool {
	return !s.updatesEnabled && s.updatesDeferred
}

// Pending reports how many distinct observers wait for the next flush.
func (s *Settings) Pending() int {
	return s.pending.len()
}

// ForwardsAllNotifications reports the policy new lazy objects start with.
func (s *Settings) ForwardsAllNotifications() bool {
	return s.forwardAll
}

// Suspend disables delivery and returns a function restoring the state found
// on entry. Restoring to an enabled state flushes the queue. Calling resume
// more than once is harmless.
func (s *Settings) Suspend(deferred bool) (resume func()) {
	wasEnabled, wasDeferred := s.updatesEnabled, s.updatesDeferred
	s.DisableUpdates(deferred)

	resumed := false
	return func() {
		if resumed {
			return
		}
		resumed = true

		if wasEnabled {
			s.EnableUpdates()
			return
		}
		s.DisableUpdates(wasDeferred)
	}
}

// Batch runs fn with delivery deferred. However fn exits, delivery is restored
// and, for the outermost batch, every affected observer is updated once.
func (s *Settings) Batch(fn func() error) error {
	resume := s.Suspend(true)
	defer resume()

	if err := fn(); err != nil {
		return fmt.Errorf("batched update: %w", err)
	}
	return nil
}

func (s *Settings) enqueue(observers ...Observer) {
	for _, obs := range observers {
		s.pending.add(obs)
	}
}

func (s *Settings) dequeue(obs Observer) {
	s.pending.remove(obs)
	for _, batch := range s.draining {
		batch.remove(obs)
	}
}

func (s *Settings) deliver(obs Observer) {
	if err := safeUpdate(obs); err != nil {
		s.log().Error("observer update failed", "observer", fmt.Sprintf("%T", obs), "error", err)
		s.collector().IncrementCounter(MetricUpdateFailures, nil)
	}
}

func safeUpdate(obs Observer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrObserverPanicked, r)
		}
	}()
	return obs.Update()
}
