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
	"github.com/gnames/gnpia/internal/iocompile"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/spf13/cobra"
)

// getCompileCmd returns the compile command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCompileCmd() *cobra.Command {
	compileCmd := &cobra.Command{
		Use:   "compile [flags] <input file>...",
		Short: "Compile PSM results into a graph of protein groups",
		Long: `Compile reads peptide-spectrum matches from search engine results
and saves the graph of protein groups into a compiled SQLite file.

This command:
  1. Reads every input file (TSV or mzIdentML, by extension)
  2. Merges accessions, peptides and PSMs of all files
  3. Splits the data into independent clusters
  4. Builds a tree of protein groups for every cluster
  5. Saves the compiled structure to the output file

A file that cannot be read is reported and skipped. The command fails
only if none of the files could be read.

Examples:
  gnpia compile -o sample.gnpia engine1.tsv engine2.mzid
  gnpia compile -j 8 -o sample.gnpia results/*.tsv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCompile,
	}

	compileCmd.Flags().StringP("output", "o", "",
		"path of the compiled file (required)")
	compileCmd.Flags().IntP("jobs", "j", 0,
		"number of concurrent workers")
	_ = compileCmd.MarkFlagRequired("output")

	return compileCmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	compileOpts := flagOptions(cmd,
		stringFlag("output", config.OptCompileOutputFile),
		intFlag("jobs", config.OptJobsNumber),
	)
	compileOpts = append(compileOpts, config.OptCompileInputFiles(args))
	cfg.Update(compileOpts)

	compiler := iocompile.New()
	if err := compiler.Compile(ctx, cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Run 'gnpia infer <em>%s</em>' to infer proteins.",
		cfg.Compile.OutputFile)
	return nil
}
