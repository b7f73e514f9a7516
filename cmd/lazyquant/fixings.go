package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/lazyquant/indexes"
	"github.com/delaneyj/lazyquant/marketdata"
)

var errMissingIndex = errors.New("missing index name")

func parseFixings(pairs []string) ([]indexes.Fixing, error) {
	fixings := make([]indexes.Fixing, 0, len(pairs))
	for _, pair := range pairs {
		d, raw, err := splitAssignment(pair)
		if err != nil {
			return nil, err
		}
		date, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return nil, fmt.Errorf("fixing date: %w", err)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("fixing %s: %w", d, err)
		}
		fixings = append(fixings, indexes.Fixing{Date: date, Value: value})
	}
	return fixings, nil
}

func dateFlag(cmd *cli.Command, key string, fallback time.Time) (time.Time, error) {
	raw := cmd.String(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", key, err)
	}
	return d, nil
}

func (a *app) fixings(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return errMissingIndex
	}
	given, err := parseFixings(cmd.Args().Tail())
	if err != nil {
		return err
	}

	e, err := a.newEnv(cmd)
	if err != nil {
		return err
	}
	manager := indexes.NewIndexManager(e.settings)
	index := indexes.NewIndex(name, manager)

	if path := cmd.String(quotesKey); path != "" {
		snap, err := marketdata.LoadSnapshot(path)
		if err != nil {
			return err
		}
		if err := marketdata.ApplyFixings(manager, snap); err != nil {
			return err
		}
	}
	if err := manager.AddFixings(name, given, true); err != nil {
		return err
	}

	history := index.Fixings()
	if len(history) == 0 {
		return fmt.Errorf("%w: %s", indexes.ErrMissingFixing, index.Name())
	}
	from, err := dateFlag(cmd, fromKey, history[0].Date)
	if err != nil {
		return err
	}
	to, err := dateFlag(cmd, toKey, history[len(history)-1].Date)
	if err != nil {
		return err
	}

	average := indexes.NewFixingAverage(index, from, to)
	v, err := average.Value()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"date", index.Name() + " %"})
	for _, f := range history {
		table.Append([]string{f.Date.Format(time.DateOnly), percent(f.Value)})
	}
	table.Render()

	fmt.Fprintf(a.out, "average %s over %s fixing(s): %s%%\n",
		index.Name(), humanize.Comma(int64(average.Count())), percent(v))
	return e.printMetrics(ctx, a.out)
}
