// Package marketdata loads quote snapshots and pushes them into observable
// quotes inside a single batched update.
package marketdata

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrInvalidTenor    = errors.New("invalid tenor")
	ErrUnknownQuote    = errors.New("unknown quote")
)

// Snapshot is the wire form of a market state.
//
//	{"as_of": "2024-03-28", "quotes": {"1Y": 0.05}, "fixings": {"SOFR": {"2024-03-27": 0.0531}}}
type Snapshot struct {
	AsOf    string                        `json:"as_of"`
	Quotes  map[string]float64            `json:"quotes"`
	Fixings map[string]map[string]float64 `json:"fixings,omitempty"`
}

func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := jsoniter.ConfigFastest.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if snap.AsOf != "" {
		if _, err := snap.Date(); err != nil {
			return nil, err
		}
	}
	return &snap, nil
}

func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

func (s *Snapshot) Marshal() ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(s)
}

// Date parses AsOf. An empty AsOf is today in UTC.
func (s *Snapshot) Date() (time.Time, error) {
	if s.AsOf == "" {
		y, m, d := time.Now().UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(time.DateOnly, s.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: as_of %q: %w", ErrInvalidSnapshot, s.AsOf, err)
	}
	return t, nil
}

// ParseTenor converts "3M", "2Y", "2W" or "10D" into a year fraction.
func ParseTenor(value string) (float64, error) {
	t := strings.ToUpper(strings.TrimSpace(value))
	if len(t) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTenor, value)
	}

	n, err := strconv.Atoi(t[:len(t)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTenor, value)
	}

	switch t[len(t)-1] {
	case 'Y':
		return float64(n), nil
	case 'M':
		return float64(n) / 12, nil
	case 'W':
		return float64(n*7) / 365, nil
	case 'D':
		return float64(n) / 365, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTenor, value)
	}
}
