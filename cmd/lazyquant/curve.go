package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/lazyquant/termstructures"
)

var errInvalidAssignment = errors.New("expected NAME=VALUE")

func splitAssignment(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	k, v = strings.TrimSpace(k), strings.TrimSpace(v)
	if !ok || k == "" || v == "" {
		return "", "", fmt.Errorf("%w: %q", errInvalidAssignment, s)
	}
	return k, v, nil
}

func parseBumps(pairs []string) (map[string]float64, error) {
	deltas := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, err := splitAssignment(pair)
		if err != nil {
			return nil, err
		}
		delta, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("bump %s: %w", name, err)
		}
		deltas[name] += delta
	}
	return deltas, nil
}

type notificationCounter struct {
	updates int
}

func (n *notificationCounter) Update() error {
	n.updates++
	return nil
}

// percent formats a rate with at most four decimals of a percent.
func percent(v float64) string {
	return humanize.CommafWithDigits(math.Round(v*1e6)/1e4, 4)
}

func (a *app) curve(ctx context.Context, cmd *cli.Command) error {
	deltas, err := parseBumps(cmd.StringSlice(bumpKey))
	if err != nil {
		return err
	}

	e, err := a.newEnv(cmd)
	if err != nil {
		return err
	}
	m, err := e.loadMarket(cmd.String(quotesKey))
	if err != nil {
		return err
	}
	asOf, err := m.snapshot.Date()
	if err != nil {
		return err
	}

	before, err := m.curve.Pillars()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "par curve as of %s, %d pillar(s)\n", asOf.Format(time.DateOnly), len(before))

	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"tenor", "par %", "discount", "zero %"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range before {
		table.Append([]string{
			tenor(p),
			percent(p.ParRate),
			strconv.FormatFloat(p.Discount, 'f', 6, 64),
			percent(p.ZeroRate),
		})
	}
	table.Render()

	if len(deltas) > 0 {
		if err := a.bump(m, before, deltas); err != nil {
			return err
		}
	}
	return e.printMetrics(ctx, a.out)
}

// bump shifts quotes in one batch and reports how the zero rates moved.
func (a *app) bump(m *market, before []termstructures.Pillar, deltas map[string]float64) error {
	notified := &notificationCounter{}
	m.curve.RegisterObserver(notified)
	defer m.curve.UnregisterObserver(notified)

	if err := m.board.Bump(deltas); err != nil {
		return err
	}
	after, err := m.curve.Pillars()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "bumped %s quote(s), curve notified %s time(s)\n",
		humanize.Comma(int64(len(deltas))), humanize.Comma(int64(notified.updates)))

	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"tenor", "zero % before", "zero % after", "change bp"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, p := range after {
		table.Append([]string{
			tenor(p),
			percent(before[i].ZeroRate),
			percent(p.ZeroRate),
			humanize.CommafWithDigits((p.ZeroRate-before[i].ZeroRate)*1e4, 2),
		})
	}
	table.Render()
	return nil
}

func tenor(p termstructures.Pillar) string {
	return strconv.Itoa(p.Tenor) + "Y"
}
