// Package termstructures holds discount curves built lazily on top of quotes.
package termstructures

import (
	"errors"
	"math"
	"time"

	"github.com/delaneyj/lazyquant/patterns"
	"github.com/delaneyj/lazyquant/quotes"
)

var (
	ErrNoQuotes        = errors.New("no quotes supplied")
	ErrInvalidTenor    = errors.New("tenor must be a positive whole number of years")
	ErrNegativeTime    = errors.New("time must not be negative")
	ErrInvalidDiscount = errors.New("bootstrapped a non-positive discount factor")
)

// FlatForward is a curve with a single continuously compounded rate read from
// a quote.
type FlatForward struct {
	*patterns.LazyObject
	referenceDate time.Time
	dayCounter    DayCounter
	rate          quotes.Quote

	r float64
}

func NewFlatForward(referenceDate time.Time, rate quotes.Quote, dc DayCounter, opts ...patterns.Option) *FlatForward {
	c := &FlatForward{
		referenceDate: referenceDate,
		dayCounter:    dc,
		rate:          rate,
	}
	c.LazyObject = patterns.NewLazyObject(c, opts...)
	c.RegisterWith(rate)
	return c
}

func (c *FlatForward) PerformCalculations() error {
	r, err := c.rate.Value()
	if err != nil {
		return err
	}
	c.r = r
	return nil
}

func (c *FlatForward) ReferenceDate() time.Time {
	return c.referenceDate
}

// Discount factor for a time in years.
func (c *FlatForward) Discount(t float64) (float64, error) {
	if t < 0 {
		return 0, ErrNegativeTime
	}
	if err := c.Calculate(); err != nil {
		return 0, err
	}
	return math.Exp(-c.r * t), nil
}

func (c *FlatForward) DiscountAt(d time.Time) (float64, error) {
	return c.Discount(c.dayCounter.YearFraction(c.referenceDate, d))
}

func (c *FlatForward) ZeroRate(t float64) (float64, error) {
	if err := c.Calculate(); err != nil {
		return 0, err
	}
	return c.r, nil
}
