package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

const (
	configKey  = "config"
	quotesKey  = "quotes"
	bumpKey    = "bump"
	metricsKey = "metrics"
	fromKey    = "from"
	toKey      = "to"
)

func main() {
	if err := run(context.Background(), os.Args, os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{out: stdout, errOut: stderr}

	cmd := &cli.Command{
		Name:      "lazyquant",
		Usage:     "Build lazily evaluated curves and fixings from market snapshots",
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			{
				Name:  "curve",
				Usage: "Bootstrap a par curve from a snapshot and optionally bump it",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     quotesKey,
						Usage:    "JSON market snapshot",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  bumpKey,
						Usage: "Shift a quote after the first build, as NAME=DELTA",
					},
				),
				Action: a.curve,
			},
			{
				Name:  "graph",
				Usage: "Print the dependency graph of a snapshot as Graphviz DOT",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     quotesKey,
						Usage:    "JSON market snapshot",
						Required: true,
					},
				),
				Action: a.graph,
			},
			{
				Name:      "fixings",
				Usage:     "Store fixings of an index and print their average",
				ArgsUsage: "NAME [DATE=VALUE...]",
				Flags:     append(commonFlags(),
					&cli.StringFlag{
						Name:  quotesKey,
						Usage: "JSON market snapshot holding fixings",
					},
					&cli.StringFlag{
						Name:  fromKey,
						Usage: "First date of the average (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  toKey,
						Usage: "Last date of the average (YYYY-MM-DD)",
					},
				),
				Action: a.fixings,
			},
		},
	}
	return cmd.Run(ctx, args)
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  configKey,
			Usage: "JSON configuration file",
		},
		&cli.BoolFlag{
			Name:  metricsKey,
			Usage: "Print notification metrics when done",
		},
	}
}
