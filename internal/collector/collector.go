package collector

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/quietlane/hostguard/internal/platform"
)

const verboseIDWidth = 20 // column width for probe ID in verbose log

// Collector runs posture probes in parallel.
type Collector struct {
	verbose bool
}

// New creates a Collector.
func New(verbose bool) *Collector {
	return &Collector{verbose: verbose}
}

// Collect runs all probes concurrently and returns a result per probe ID.
// Each probe writes its own result slot; a slow or failing probe never
// blocks or corrupts the others. Failed probes are recorded, not fatal.
func (c *Collector) Collect(ctx context.Context, probes []platform.Probe) map[string]Result {
	results := make([]Result, len(probes))
	var wg sync.WaitGroup

	for i, probe := range probes {
		wg.Add(1)
		go func(idx int, p platform.Probe) {
			defer wg.Done()

			if c.verbose {
				fmt.Fprintf(os.Stderr, "[collector] start: %-*s  %s\n", verboseIDWidth, p.ID, p.Name)
			}

			results[idx] = Run(ctx, p)

			if c.verbose {
				status := "ok"
				if !results[idx].OK {
					status = results[idx].Meta["failure_kind"]
					if status == "" {
						status = "failed"
					}
				}
				fmt.Fprintf(os.Stderr, "[collector] done:  %-*s  %s  %s\n",
					verboseIDWidth, p.ID, results[idx].Meta["duration"], status)
			}
		}(i, probe)
	}

	wg.Wait()

	merged := make(map[string]Result, len(probes))
	for i, p := range probes {
		merged[p.ID] = results[i]
	}
	return merged
}
