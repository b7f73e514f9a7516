package termstructures_test

import (
	"math"
	"testing"
	"time"

	"github.com/delaneyj/lazyquant/patterns"
	"github.com/delaneyj/lazyquant/quotes"
	"github.com/delaneyj/lazyquant/termstructures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	updates int
}

func (c *counter) Update() error {
	c.updates++
	return nil
}

func TestYearFraction(t *testing.T) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.July, 31, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 182.0/360.0, termstructures.Actual360.YearFraction(start, end), 1e-12)
	assert.InDelta(t, 182.0/365.0, termstructures.Actual365Fixed.YearFraction(start, end), 1e-12)
	assert.InDelta(t, 0.5, termstructures.Thirty360.YearFraction(start, end), 1e-12)
	assert.InDelta(t, 182.0/365.0, termstructures.DayCounter("bogus").YearFraction(start, end), 1e-12)
}

func TestFlatForward(t *testing.T) {
	s := patterns.NewSettings()
	ref := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	rate := quotes.NewSimpleQuote(0.03, patterns.WithSettings(s))
	h := quotes.NewRelinkableHandle(rate, patterns.WithSettings(s))
	curve := termstructures.NewFlatForward(ref, h, termstructures.Actual365Fixed, patterns.WithSettings(s))

	df, err := curve.Discount(2)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.06), df, 1e-12)

	df, err = curve.DiscountAt(ref.AddDate(0, 0, 365))
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.03), df, 1e-12)

	rate.SetValue(0.04)
	assert.False(t, curve.IsCalculated())
	z, err := curve.ZeroRate(5)
	require.NoError(t, err)
	assert.InDelta(t, 0.04, z, 1e-12)

	t.Run("relinking the handle invalidates", func(t *testing.T) {
		h.LinkTo(quotes.NewSimpleQuote(0.01, patterns.WithSettings(s)))
		assert.False(t, curve.IsCalculated())
		z, err := curve.ZeroRate(1)
		require.NoError(t, err)
		assert.InDelta(t, 0.01, z, 1e-12)
	})

	t.Run("empty handle fails", func(t *testing.T) {
		h.LinkTo(nil)
		_, err := curve.Discount(1)
		assert.ErrorIs(t, err, quotes.ErrEmptyHandle)
		assert.ErrorIs(t, err, patterns.ErrCalculationFailed)
	})

	_, err = curve.Discount(-1)
	assert.ErrorIs(t, err, termstructures.ErrNegativeTime)
}

func parQuotes(s *patterns.Settings, rates map[int]float64) (map[int]*quotes.SimpleQuote, map[int]quotes.Quote) {
	simple := make(map[int]*quotes.SimpleQuote, len(rates))
	pillars := make(map[int]quotes.Quote, len(rates))
	for tenor, r := range rates {
		q := quotes.NewSimpleQuote(r, patterns.WithSettings(s))
		simple[tenor] = q
		pillars[tenor] = q
	}
	return simple, pillars
}

func TestParCurveFlatRates(t *testing.T) {
	s := patterns.NewSettings()
	_, pillars := parQuotes(s, map[int]float64{1: 0.05, 2: 0.05, 5: 0.05})
	curve, err := termstructures.NewParCurve(pillars, patterns.WithSettings(s))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 5}, curve.Tenors())

	// a flat par curve discounts annually at the par rate
	for n := 1; n <= 5; n++ {
		df, err := curve.Discount(float64(n))
		require.NoError(t, err)
		assert.InDelta(t, math.Pow(1.05, -float64(n)), df, 1e-12, "%dY", n)
	}

	df, err := curve.Discount(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, df)

	z, err := curve.ZeroRate(3)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(1.05), z, 1e-12)

	// log-linear between pillars and flat forward beyond the last one
	z, err = curve.ZeroRate(2.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(1.05), z, 1e-12)
	z, err = curve.ZeroRate(7)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(1.05), z, 1e-12)

	pillarsOut, err := curve.Pillars()
	require.NoError(t, err)
	require.Len(t, pillarsOut, 5)
	assert.Equal(t, 3, pillarsOut[2].Tenor)
	assert.InDelta(t, 0.05, pillarsOut[2].ParRate, 1e-12)
}

func TestParCurveBootstrap(t *testing.T) {
	s := patterns.NewSettings()
	_, pillars := parQuotes(s, map[int]float64{1: 0.02, 3: 0.04})
	curve, err := termstructures.NewParCurve(pillars, patterns.WithSettings(s))
	require.NoError(t, err)

	df1 := 1 / 1.02
	df2 := (1 - 0.03*df1) / 1.03
	df3 := (1 - 0.04*(df1+df2)) / 1.04

	out, err := curve.Pillars()
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.InDelta(t, 0.03, out[1].ParRate, 1e-12)
	assert.InDelta(t, df1, out[0].Discount, 1e-12)
	assert.InDelta(t, df2, out[1].Discount, 1e-12)
	assert.InDelta(t, df3, out[2].Discount, 1e-12)
	assert.InDelta(t, -math.Log(df3)/3, out[2].ZeroRate, 1e-12)
}

func TestParCurveRecalculatesOnceAfterBatch(t *testing.T) {
	s := patterns.NewSettings()
	simple, pillars := parQuotes(s, map[int]float64{1: 0.01, 2: 0.02, 3: 0.03})
	curve, err := termstructures.NewParCurve(pillars, patterns.WithSettings(s))
	require.NoError(t, err)

	c := &counter{}
	curve.RegisterObserver(c)

	before, err := curve.Discount(3)
	require.NoError(t, err)

	err = s.Batch(func() error {
		for _, q := range simple {
			v, _ := q.Value()
			q.SetValue(v + 0.01)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.updates)
	assert.False(t, curve.IsCalculated())

	after, err := curve.Discount(3)
	require.NoError(t, err)
	assert.Less(t, after, before)
}

func TestParCurveErrors(t *testing.T) {
	s := patterns.NewSettings()

	_, err := termstructures.NewParCurve(nil)
	assert.ErrorIs(t, err, termstructures.ErrNoQuotes)

	_, err = termstructures.NewParCurve(map[int]quotes.Quote{0: quotes.NewSimpleQuote(0.01)})
	assert.ErrorIs(t, err, termstructures.ErrInvalidTenor)

	simple, pillars := parQuotes(s, map[int]float64{1: 0.01, 2: 0.02})
	curve, err := termstructures.NewParCurve(pillars, patterns.WithSettings(s))
	require.NoError(t, err)

	simple[2].Reset()
	_, err = curve.Discount(1)
	assert.ErrorIs(t, err, quotes.ErrInvalidQuote)
	assert.False(t, curve.IsCalculated())

	simple[2].SetValue(0.02)
	simple[1].SetValue(-2)
	_, err = curve.Discount(1)
	assert.ErrorIs(t, err, termstructures.ErrInvalidDiscount)

	simple[1].SetValue(0.01)
	_, err = curve.Discount(2)
	assert.NoError(t, err)
}
