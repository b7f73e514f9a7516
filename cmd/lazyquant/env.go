package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/delaneyj/lazyquant/config"
	"github.com/delaneyj/lazyquant/marketdata"
	"github.com/delaneyj/lazyquant/observability/oteladapters"
	"github.com/delaneyj/lazyquant/patterns"
	"github.com/delaneyj/lazyquant/termstructures"
)

type app struct {
	out, errOut io.Writer
}

// env is what every command starts from: the configured coordinator and,
// when metrics are on, the reader behind its collector.
type env struct {
	settings *patterns.Settings
	reader   *sdkmetric.ManualReader
}

func (a *app) newEnv(cmd *cli.Command) (*env, error) {
	cfg := config.DefaultConfig()
	c := &cfg
	if path := cmd.String(configKey); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		c = loaded
	}
	if cmd.Bool(metricsKey) {
		c.Metrics = true
	}

	logger, err := c.Logger(a.errOut)
	if err != nil {
		return nil, err
	}

	e := &env{}
	var opts []patterns.SettingsOption
	if c.Metrics {
		e.reader = sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(e.reader))
		opts = append(opts, patterns.WithMetrics(oteladapters.NewMetricsCollector(provider.Meter("lazyquant"))))
	}
	e.settings = c.Settings(logger, opts...)
	return e, nil
}

// market loads a snapshot into a board and bootstraps a par curve over its
// whole-year quotes.
type market struct {
	snapshot *marketdata.Snapshot
	board    *marketdata.Board
	curve    *termstructures.ParCurve
}

func (e *env) loadMarket(path string) (*market, error) {
	snap, err := marketdata.LoadSnapshot(path)
	if err != nil {
		return nil, err
	}

	board := marketdata.NewBoard(e.settings)
	if _, err := board.Apply(snap); err != nil {
		return nil, err
	}

	curve, err := termstructures.NewParCurve(board.Pillars(), patterns.WithSettings(e.settings))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &market{snapshot: snap, board: board, curve: curve}, nil
}

func (e *env) printMetrics(ctx context.Context, w io.Writer) error {
	if e.reader == nil {
		return nil
	}

	var rm metricdata.ResourceMetrics
	if err := e.reader.Collect(ctx, &rm); err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}

	var rows [][]string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					rows = append(rows, []string{m.Name, labels(dp.Attributes.ToSlice()), humanize.Comma(dp.Value)})
				}
			case metricdata.Gauge[float64]:
				for _, dp := range data.DataPoints {
					rows = append(rows, []string{m.Name, labels(dp.Attributes.ToSlice()), humanize.Ftoa(dp.Value)})
				}
			}
		}
	}
	slices.SortFunc(rows, func(a, b []string) int {
		return strings.Compare(a[0]+a[1], b[0]+b[1])
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"metric", "labels", "value"})
	table.AppendBulk(rows)
	table.Render()
	return nil
}

func labels(kvs []attribute.KeyValue) string {
	parts := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
	}
	return strings.Join(parts, ",")
}
