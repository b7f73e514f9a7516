package marketdata

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/delaneyj/lazyquant/indexes"
	"github.com/delaneyj/lazyquant/patterns"
	"github.com/delaneyj/lazyquant/quotes"
)

// Board owns one SimpleQuote per market name. Names are case-insensitive.
type Board struct {
	settings *patterns.Settings
	quotes   map[string]*quotes.SimpleQuote
}

func NewBoard(s *patterns.Settings) *Board {
	if s == nil {
		s = patterns.DefaultSettings()
	}
	return &Board{
		settings: s,
		quotes:   map[string]*quotes.SimpleQuote{},
	}
}

// Quote returns the quote for name, creating an empty one on first use.
func (b *Board) Quote(name string) *quotes.SimpleQuote {
	name = strings.ToUpper(name)
	q, ok := b.quotes[name]
	if !ok {
		q = quotes.NewEmptyQuote(patterns.WithSettings(b.settings))
		b.quotes[name] = q
	}
	return q
}

func (b *Board) Names() []string {
	return slices.Sorted(maps.Keys(b.quotes))
}

// Apply sets every quote of snap in one batch, so each dependent is updated
// once. It returns how many quotes changed.
func (b *Board) Apply(snap *Snapshot) (int, error) {
	changed := 0
	err := b.settings.Batch(func() error {
		for _, name := range slices.Sorted(maps.Keys(snap.Quotes)) {
			q := b.Quote(name)
			wasValid := q.IsValid()
			if q.SetValue(snap.Quotes[name]) != 0 || !wasValid {
				changed++
			}
		}
		return nil
	})
	return changed, err
}

// Bump shifts existing quotes by the given deltas in one batch. Every name is
// checked before the first quote moves, so a failed bump changes nothing.
func (b *Board) Bump(deltas map[string]float64) error {
	type shift struct {
		q     *quotes.SimpleQuote
		value float64
	}
	shifts := make([]shift, 0, len(deltas))
	for _, name := range slices.Sorted(maps.Keys(deltas)) {
		q, ok := b.quotes[strings.ToUpper(name)]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownQuote, name)
		}
		v, err := q.Value()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		shifts = append(shifts, shift{q: q, value: v + deltas[name]})
	}

	return b.settings.Batch(func() error {
		for _, s := range shifts {
			s.q.SetValue(s.value)
		}
		return nil
	})
}

// Pillars returns the quotes named by a whole number of years, keyed by that
// number, ready for a par curve. When several names land on the same year a
// "Y" name wins, otherwise the first name in sorted order.
func (b *Board) Pillars() map[int]quotes.Quote {
	pillars := map[int]quotes.Quote{}
	byYears := map[int]string{}
	for _, name := range b.Names() {
		years, err := ParseTenor(name)
		if err != nil || years != math.Trunc(years) {
			continue
		}
		n := int(years)
		if prev, ok := byYears[n]; ok && (strings.HasSuffix(prev, "Y") || !strings.HasSuffix(name, "Y")) {
			continue
		}
		byYears[n] = name
		pillars[n] = b.quotes[name]
	}
	return pillars
}

// ApplyFixings loads the fixings of snap into m, overwriting stored values.
func ApplyFixings(m *indexes.IndexManager, snap *Snapshot) error {
	for _, name := range slices.Sorted(maps.Keys(snap.Fixings)) {
		series := snap.Fixings[name]
		fixings := make([]indexes.Fixing, 0, len(series))
		for d, v := range series {
			date, err := time.Parse(time.DateOnly, d)
			if err != nil {
				return fmt.Errorf("%w: fixing date %q of %s: %w", ErrInvalidSnapshot, d, name, err)
			}
			fixings = append(fixings, indexes.Fixing{Date: date, Value: v})
		}
		if err := m.AddFixings(name, fixings, true); err != nil {
			return err
		}
	}
	return nil
}
