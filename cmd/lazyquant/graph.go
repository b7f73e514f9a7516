package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/delaneyj/lazyquant/patterns"
	"github.com/delaneyj/lazyquant/templates"
)

func (a *app) graph(ctx context.Context, cmd *cli.Command) error {
	e, err := a.newEnv(cmd)
	if err != nil {
		return err
	}
	m, err := e.loadMarket(cmd.String(quotesKey))
	if err != nil {
		return err
	}
	// calculated nodes render differently
	if _, err := m.curve.Pillars(); err != nil {
		return err
	}

	labels := map[string]patterns.Source{"curve": m.curve}
	var roots []patterns.Source
	for _, name := range m.board.Names() {
		q := m.board.Quote(name)
		labels[name] = q
		roots = append(roots, q)
	}

	templates.WriteDOT(a.out, templates.CollectGraph("lazyquant", labels, roots...))
	return e.printMetrics(ctx, a.errOut)
}
