package iologger

import (
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnpia/pkg/anomaly"
)

// examplesShown is the number of example messages printed per kind.
const examplesShown = 3

// PrintAnomalies shows the summary of data anomalies of a run. Every
// anomaly is also in the log.
func PrintAnomalies(c *anomaly.Collector) {
	sums := c.Summaries()
	if len(sums) == 0 {
		return
	}
	gn.Warn("<warn>Data anomalies found: %s</warn>",
		humanize.Comma(int64(c.Total())))
	for _, s := range sums {
		gn.Message("  <em>%s</em>: %s", s.Kind, humanize.Comma(int64(s.Count)))
		for _, e := range s.Examples[:min(examplesShown, len(s.Examples))] {
			gn.Message("    %s", e)
		}
	}
}
