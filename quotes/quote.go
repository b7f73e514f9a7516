// Package quotes holds market quotes: observable values that the rest of the
// library registers with and recomputes from.
package quotes

import (
	"errors"
	"math"

	"github.com/delaneyj/lazyquant/patterns"
)

var (
	ErrInvalidQuote = errors.New("invalid quote")
	ErrEmptyHandle  = errors.New("empty handle")
)

// Quote is an observable market value.
type Quote interface {
	patterns.Source
	Value() (float64, error)
	IsValid() bool
}

// SimpleQuote is a settable quote. Observers are notified only when the value
// actually changes.
type SimpleQuote struct {
	*patterns.Observable
	value float64
	valid bool
}

func NewSimpleQuote(value float64, opts ...patterns.Option) *SimpleQuote {
	q := NewEmptyQuote(opts...)
	q.value = value
	q.valid = !math.IsNaN(value)
	return q
}

// NewEmptyQuote returns a quote that stays invalid until SetValue is called.
func NewEmptyQuote(opts ...patterns.Option) *SimpleQuote {
	return &SimpleQuote{
		Observable: patterns.NewObservable(opts...),
	}
}

func (q *SimpleQuote) Value() (float64, error) {
	if !q.valid {
		return 0, ErrInvalidQuote
	}
	return q.value, nil
}

func (q *SimpleQuote) IsValid() bool {
	return q.valid
}

// SetValue stores v and returns the difference from the previous value.
func (q *SimpleQuote) SetValue(v float64) float64 {
	diff := v - q.value
	wasValid := q.valid
	q.value = v
	q.valid = !math.IsNaN(v)
	if diff != 0 || wasValid != q.valid {
		q.NotifyObservers()
	}
	return diff
}

// Reset invalidates the quote.
func (q *SimpleQuote) Reset() {
	if !q.valid {
		return
	}
	q.valid = false
	q.value = 0
	q.NotifyObservers()
}

// DerivedQuote applies fn to an underlying quote, caching the result until
// the underlying notifies.
type DerivedQuote struct {
	*patterns.LazyObject
	underlying Quote
	fn         func(float64) float64
	value      float64
}

func NewDerivedQuote(underlying Quote, fn func(float64) float64, opts ...patterns.Option) *DerivedQuote {
	q := &DerivedQuote{
		underlying: underlying,
		fn:         fn,
	}
	q.LazyObject = patterns.NewLazyObject(q, opts...)
	q.RegisterWith(underlying)
	return q
}

func (q *DerivedQuote) PerformCalculations() error {
	v, err := q.underlying.Value()
	if err != nil {
		return err
	}
	q.value = q.fn(v)
	return nil
}

func (q *DerivedQuote) Value() (float64, error) {
	if err := q.Calculate(); err != nil {
		return 0, err
	}
	return q.value, nil
}

func (q *DerivedQuote) IsValid() bool {
	return q.underlying.IsValid()
}

// CompositeQuote combines two quotes.
type CompositeQuote struct {
	*patterns.LazyObject
	first, second Quote
	fn            func(float64, float64) float64
	value         float64
}

func NewCompositeQuote(first, second Quote, fn func(float64, float64) float64, opts ...patterns.Option) *CompositeQuote {
	q := &CompositeQuote{
		first:  first,
		second: second,
		fn:     fn,
	}
	q.LazyObject = patterns.NewLazyObject(q, opts...)
	q.RegisterWith(first)
	q.RegisterWith(second)
	return q
}

func (q *CompositeQuote) PerformCalculations() error {
	a, err := q.first.Value()
	if err != nil {
		return err
	}
	b, err := q.second.Value()
	if err != nil {
		return err
	}
	q.value = q.fn(a, b)
	return nil
}

func (q *CompositeQuote) Value() (float64, error) {
	if err := q.Calculate(); err != nil {
		return 0, err
	}
	return q.value, nil
}

func (q *CompositeQuote) IsValid() bool {
	return q.first.IsValid() && q.second.IsValid()
}
