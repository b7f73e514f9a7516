package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/delaneyj/lazyquant/patterns"
	"github.com/delaneyj/lazyquant/quotes"
)

var (
	ww        = []int{1, 10, 100, 1_000}
	hh        = []int{1, 10, 100}
	iters     = 100
	batchSize = 10
)

func main() {
	profile := flag.String("cpuprofile", "default.pgo", "write a CPU profile to this file, empty to disable")
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkPropagation(false, false)

	benchmarkPropagation(false, true)
	benchmarkPropagation(true, true)
}

func addOne(v float64) float64 {
	return v + 1
}

// effect pulls the end of a chain whenever it is notified, so every
// notification is followed by a full recalculation.
type effect struct {
	q    quotes.Quote
	runs int
}

func (e *effect) Update() error {
	e.runs++
	_, err := e.q.Value()
	return err
}

// chains builds w chains of h derived quotes on src, each ending in an effect.
func chains(s *patterns.Settings, src quotes.Quote, w, h int) []*effect {
	effects := make([]*effect, 0, w)
	for i := 0; i < w; i++ {
		last := src
		for j := 0; j < h; j++ {
			last = quotes.NewDerivedQuote(last, addOne, patterns.WithSettings(s))
		}
		if _, err := last.Value(); err != nil {
			log.Panic(err)
		}

		e := &effect{q: last}
		last.AsObservable().RegisterObserver(e)
		effects = append(effects, e)
	}
	return effects
}

// benchmarkPropagation times one update of the source. Batched runs set the
// source batchSize times inside one Batch.
func benchmarkPropagation(batched, shouldRender bool) {
	tbl := table.NewWriter()
	if batched {
		tbl.SetTitle(fmt.Sprintf("Batched propagation (%d updates per batch)", batchSize))
	} else {
		tbl.SetTitle("Immediate propagation")
	}
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "effect runs"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			s := patterns.NewSettings()
			src := quotes.NewSimpleQuote(1, patterns.WithSettings(s))
			effects := chains(s, src, w, h)

			update := func() {
				v, _ := src.Value()
				src.SetValue(v + 1)
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				if batched {
					err := s.Batch(func() error {
						for k := 0; k < batchSize; k++ {
							update()
						}
						return nil
					})
					if err != nil {
						log.Panic(err)
					}
				} else {
					update()
				}
				tach.AddTime(time.Since(start))
			}

			runs := 0
			for _, e := range effects {
				runs += e.runs
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
					runs,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
