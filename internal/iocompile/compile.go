// Package iocompile implements lifecycle.Compiler. It reads search
// engine result files, builds the Group graph and saves the compiled
// structure to a SQLite file.
package iocompile

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnpia/internal/ioinput"
	"github.com/gnames/gnpia/internal/iologger"
	"github.com/gnames/gnpia/internal/iostore"
	"github.com/gnames/gnpia/pkg/anomaly"
	"github.com/gnames/gnpia/pkg/compiler"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/gnames/gnpia/pkg/intermediate"
)

// CompilerImpl implements lifecycle.Compiler.
type CompilerImpl struct {
	anomalies *anomaly.Collector
}

// New creates a new Compiler.
func New() *CompilerImpl {
	return &CompilerImpl{}
}

// Anomalies returns data anomalies of the last compilation.
func (c *CompilerImpl) Anomalies() *anomaly.Collector {
	return c.anomalies
}

// Compile reads cfg.Compile.InputFiles and saves the compiled structure
// to cfg.Compile.OutputFile. Unreadable files are skipped, an error is
// returned only if none of the files could be read.
func (c *CompilerImpl) Compile(ctx context.Context, cfg *config.Config) error {
	paths := cfg.Compile.InputFiles
	if len(paths) == 0 {
		return NoInputError()
	}
	if cfg.Compile.OutputFile == "" {
		return NoOutputError()
	}

	start := time.Now()
	c.anomalies = anomaly.New()
	store := intermediate.NewStore()

	slog.Info("Starting compilation", "files", len(paths), "jobs", cfg.JobsNumber)
	gn.Info("Compiling <em>%d</em> input files", len(paths))

	if err := c.load(ctx, cfg, store); err != nil {
		return err
	}

	groups, nrTrees, err := c.build(ctx, cfg, store)
	if err != nil {
		return err
	}

	compiled := iostore.Compiled{Store: store, Groups: groups}
	if err = iostore.Save(ctx, cfg.Compile.OutputFile, compiled); err != nil {
		return err
	}

	dur := gnfmt.TimeString(time.Since(start).Seconds())
	nrPSMs := humanize.Comma(int64(len(store.PSMs())))
	nrPeps := humanize.Comma(int64(len(store.Peptides())))
	nrAccs := humanize.Comma(int64(len(store.Accessions())))
	slog.Info("Compilation complete",
		"output", cfg.Compile.OutputFile,
		"psms", nrPSMs,
		"peptides", nrPeps,
		"accessions", nrAccs,
		"groups", len(groups),
		"trees", nrTrees,
		"duration", dur,
	)
	gn.Info(`Compiled <em>%s</em>
PSMs: %s, peptides: %s, accessions: %s, groups: %s, trees: %s.
Elapsed time: <em>%s</em>`,
		cfg.Compile.OutputFile,
		nrPSMs, nrPeps, nrAccs,
		humanize.Comma(int64(len(groups))),
		humanize.Comma(nrTrees),
		dur,
	)
	iologger.PrintAnomalies(c.anomalies)
	return nil
}

func (c *CompilerImpl) load(
	ctx context.Context,
	cfg *config.Config,
	store *intermediate.Store,
) error {
	paths := cfg.Compile.InputFiles
	bar := newProgressBar(len(paths), "Reading files: ")
	l := &ioinput.Loader{
		Store:     store,
		Anomalies: c.anomalies,
		Jobs:      cfg.JobsNumber,
		OnFile:    func() { bar.Increment() },
	}
	res, err := l.Load(ctx, paths)
	bar.Finish()
	if err != nil {
		return err
	}

	var failed int
	for _, r := range res {
		if r.Err != nil {
			failed++
			gn.Warn("<warn>Skipped</warn> %s: %s", r.Path, r.Err)
			continue
		}
		slog.Debug("Input file compiled",
			"path", r.Path, "file_id", r.FileID, "psms", r.NrPSMs)
	}
	if failed == len(res) {
		return ioinput.AllFilesFailedError(failed)
	}
	if failed > 0 {
		slog.Warn("Some input files failed",
			"failed", failed, "succeeded", len(res)-failed)
	}
	return nil
}

func (c *CompilerImpl) build(
	ctx context.Context,
	cfg *config.Config,
	store *intermediate.Store,
) (intermediate.GroupMap, int64, error) {
	clusters := store.Clusters()
	slog.Info("Building groups", "clusters", len(clusters))

	bar := newProgressBar(len(clusters), "Building groups: ")
	comp := compiler.New(store, c.anomalies, cfg.JobsNumber)
	comp.OnCluster = func() { bar.Increment() }
	groups, err := comp.Build(ctx, clusters)
	bar.Finish()
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, BuildError(err)
	}
	return groups, comp.NrTrees(), nil
}
