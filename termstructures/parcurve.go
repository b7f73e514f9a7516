package termstructures

import (
	"fmt"
	"math"
	"slices"

	"github.com/delaneyj/lazyquant/patterns"
	"github.com/delaneyj/lazyquant/quotes"
)

// ParCurve bootstraps discount factors from annual par swap rates. Missing
// whole-year pillars are filled by linear interpolation of the quoted rates;
// discount factors between pillars are log-linear and the last forward rate
// is extended flat.
type ParCurve struct {
	*patterns.LazyObject
	tenors []int
	quotes map[int]quotes.Quote

	times     []float64
	discounts []float64
	parRates  []float64
}

// NewParCurve registers the curve with every quote. Tenors are in years.
func NewParCurve(pillars map[int]quotes.Quote, opts ...patterns.Option) (*ParCurve, error) {
	if len(pillars) == 0 {
		return nil, ErrNoQuotes
	}

	c := &ParCurve{
		quotes: make(map[int]quotes.Quote, len(pillars)),
	}
	for tenor, q := range pillars {
		if tenor <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidTenor, tenor)
		}
		c.tenors = append(c.tenors, tenor)
		c.quotes[tenor] = q
	}
	slices.Sort(c.tenors)

	c.LazyObject = patterns.NewLazyObject(c, opts...)
	for _, tenor := range c.tenors {
		c.RegisterWith(c.quotes[tenor])
	}
	return c, nil
}

func (c *ParCurve) PerformCalculations() error {
	rates, err := c.pillarRates()
	if err != nil {
		return err
	}

	c.times = append(c.times[:0], 0)
	c.discounts = append(c.discounts[:0], 1)
	c.parRates = rates

	annuity := 0.0
	for n := 1; n <= len(rates); n++ {
		r := rates[n-1]
		df := (1 - r*annuity) / (1 + r)
		if df <= 0 || math.IsNaN(df) {
			return fmt.Errorf("%w: %dY", ErrInvalidDiscount, n)
		}
		c.times = append(c.times, float64(n))
		c.discounts = append(c.discounts, df)

		// reads back the pillar just built; Calculate is a no-op while the
		// bootstrap is running
		built, err := c.Discount(float64(n))
		if err != nil {
			return err
		}
		annuity += built
	}
	return nil
}

// pillarRates returns one par rate per whole year up to the longest tenor.
func (c *ParCurve) pillarRates() ([]float64, error) {
	quoted := make(map[int]float64, len(c.tenors))
	for _, tenor := range c.tenors {
		v, err := c.quotes[tenor].Value()
		if err != nil {
			return nil, fmt.Errorf("%dY: %w", tenor, err)
		}
		quoted[tenor] = v
	}

	last := c.tenors[len(c.tenors)-1]
	rates := make([]float64, last)
	for year := 1; year <= last; year++ {
		if v, ok := quoted[year]; ok {
			rates[year-1] = v
			continue
		}
		lo, hi := c.adjacentTenors(year)
		switch {
		case lo == 0:
			rates[year-1] = quoted[hi]
		default:
			r1, r2 := quoted[lo], quoted[hi]
			rates[year-1] = r1 + (r2-r1)*float64(year-lo)/float64(hi-lo)
		}
	}
	return rates, nil
}

func (c *ParCurve) adjacentTenors(year int) (lo, hi int) {
	for _, tenor := range c.tenors {
		if tenor < year {
			lo = tenor
			continue
		}
		return lo, tenor
	}
	return lo, lo
}

// Discount factor for a time in years.
func (c *ParCurve) Discount(t float64) (float64, error) {
	if t < 0 {
		return 0, ErrNegativeTime
	}
	if err := c.Calculate(); err != nil {
		return 0, err
	}
	return c.interpolate(t), nil
}

func (c *ParCurve) interpolate(t float64) float64 {
	n := len(c.times)
	if n < 2 || t == 0 {
		return 1
	}

	i, found := slices.BinarySearch(c.times, t)
	if found {
		return c.discounts[i]
	}
	if i >= n {
		// flat forward past the last pillar
		t0, t1 := c.times[n-2], c.times[n-1]
		fwd := math.Log(c.discounts[n-2]/c.discounts[n-1]) / (t1 - t0)
		return c.discounts[n-1] * math.Exp(-fwd*(t-t1))
	}

	t0, t1 := c.times[i-1], c.times[i]
	w := (t - t0) / (t1 - t0)
	return math.Exp((1-w)*math.Log(c.discounts[i-1]) + w*math.Log(c.discounts[i]))
}

// ZeroRate is the continuously compounded zero rate to t.
func (c *ParCurve) ZeroRate(t float64) (float64, error) {
	if t <= 0 {
		return 0, ErrNegativeTime
	}
	df, err := c.Discount(t)
	if err != nil {
		return 0, err
	}
	return -math.Log(df) / t, nil
}

// Pillar is one bootstrapped node of the curve.
type Pillar struct {
	Tenor    int
	ParRate  float64
	Discount float64
	ZeroRate float64
}

func (c *ParCurve) Pillars() ([]Pillar, error) {
	if err := c.Calculate(); err != nil {
		return nil, err
	}
	pillars := make([]Pillar, 0, len(c.parRates))
	for n := 1; n < len(c.times); n++ {
		pillars = append(pillars, Pillar{
			Tenor:    n,
			ParRate:  c.parRates[n-1],
			Discount: c.discounts[n],
			ZeroRate: -math.Log(c.discounts[n]) / c.times[n],
		})
	}
	return pillars, nil
}

// Tenors returns the quoted tenors in ascending order.
func (c *ParCurve) Tenors() []int {
	return slices.Clone(c.tenors)
}
