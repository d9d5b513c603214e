/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/internal/iodb"
	"github.com/gnames/gnpia/internal/ioinfer"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/spf13/cobra"
)

// getInferCmd returns the infer command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getInferCmd() *cobra.Command {
	inferCmd := &cobra.Command{
		Use:   "infer [flags] <compiled file>",
		Short: "Infer proteins from a compiled file",
		Long: `Infer runs protein inference on a compiled file made by
'gnpia compile' and writes reported proteins with their scores.

Inference methods:
  occams_razor        minimal set of proteins explaining all peptides
  spectrum_extractor  every spectrum supports only one protein
  report_all          every protein with surviving peptides

Scoring methods:
  scoring_additive, scoring_multiplicative, geometric_mean_scoring

Filters are given as "field COMPARATOR value", for example
"psm_score:mascot_score GEQ 20" or "nr_peptides_per_protein GT 1",
or in a YAML file given by --filters.

Results go to STDOUT unless --output is set. With --db they are also
exported to PostgreSQL (create the schema with 'gnpia create' first).

Examples:
  gnpia infer sample.gnpia
  gnpia infer sample.gnpia -m spectrum_extractor -s scoring_additive \
    --score mascot_score -o proteins.tsv
  gnpia infer sample.gnpia -F "charge GT 1" -F "psm_score:mascot_score GEQ 20"
  gnpia infer sample.gnpia --filters filters.yaml -f json --db`,
		Args: cobra.ExactArgs(1),
		RunE: runInfer,
	}

	f := inferCmd.Flags()
	f.StringP("method", "m", "", "inference method")
	f.StringP("scoring", "s", "", "protein scoring method")
	f.String("score", "", "PSM score used for protein scoring")
	f.StringP("psm-for-scoring", "p", "", "'best' or 'all' PSMs of a peptide")
	f.Bool("consider-modifications", false,
		"distinguish peptides by their modifications")
	f.StringArrayP("filter", "F", nil, "filter, can be repeated")
	f.String("filters", "", "YAML file with filters")
	f.StringP("output", "o", "", "output file, STDOUT by default")
	f.StringP("format", "f", "", "output format: tsv, csv or json")
	f.Bool("db", false, "export results to PostgreSQL")
	f.Bool("cache", false, "reuse results of identical runs")
	f.IntP("jobs", "j", 0, "number of concurrent workers")

	return inferCmd
}

func runInfer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inferOpts := flagOptions(cmd,
		stringFlag("method", config.OptInferenceMethod),
		stringFlag("scoring", config.OptInferenceScoring),
		stringFlag("score", config.OptInferenceScore),
		stringFlag("psm-for-scoring", config.OptInferencePSMForScoring),
		boolFlag("consider-modifications",
			config.OptInferenceConsiderModifications),
		stringArrayFlag("filter", config.OptInferenceFilters),
		stringFlag("filters", config.OptInferenceFiltersFile),
		stringFlag("output", config.OptInferenceOutputFile),
		stringFlag("format", config.OptInferenceOutputFormat),
		boolFlag("db", config.OptInferenceExportToDB),
		boolFlag("cache", config.OptCacheEnabled),
		intFlag("jobs", config.OptJobsNumber),
	)
	inferOpts = append(inferOpts, config.OptInferenceCompiledFile(args[0]))
	cfg.Update(inferOpts)

	inferrer := ioinfer.New(iodb.NewPgxOperator())
	if err := inferrer.Infer(ctx, cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
