// Package ioinfer implements lifecycle.Inferrer. It loads a compiled
// structure, runs protein inference and writes the reported proteins to
// a file or STDOUT, and optionally to PostgreSQL.
package ioinfer

import (
	"context"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnpia/internal/iocache"
	"github.com/gnames/gnpia/internal/ioexport"
	"github.com/gnames/gnpia/internal/iologger"
	"github.com/gnames/gnpia/internal/iostore"
	"github.com/gnames/gnpia/pkg/anomaly"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/gnames/gnpia/pkg/db"
	"github.com/gnames/gnpia/pkg/inference"
	"github.com/gnames/gnpia/pkg/report"
	"github.com/gnames/gnpia/pkg/score"
	"github.com/gnames/gnpia/pkg/scoring"
)

// fdrThreshold is the q-value up to which PSM sets count as FDR-good.
const fdrThreshold = 0.01

// InferrerImpl implements lifecycle.Inferrer.
type InferrerImpl struct {
	operator  db.Operator
	anomalies *anomaly.Collector
	rows      []report.Row
	cached    bool
}

// New creates an Inferrer. The operator is used only when results are
// exported to PostgreSQL, it can be nil otherwise.
func New(op db.Operator) *InferrerImpl {
	return &InferrerImpl{operator: op}
}

// Rows returns reported proteins of the last inference.
func (i *InferrerImpl) Rows() []report.Row {
	return i.rows
}

// Cached is true if the last result came from the cache.
func (i *InferrerImpl) Cached() bool {
	return i.cached
}

// Anomalies returns data anomalies of the last inference.
func (i *InferrerImpl) Anomalies() *anomaly.Collector {
	return i.anomalies
}

// Infer runs the inference configured in cfg.Inference. Settings are
// checked before the compiled structure is read.
func (i *InferrerImpl) Infer(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	i.anomalies = anomaly.New()
	i.rows, i.cached = nil, false

	s, err := newSettings(cfg)
	if err != nil {
		return err
	}

	cache, key := i.openCache(cfg, s)
	if cache != nil {
		defer cache.Close()
		rows, ok, err := cache.Get(key)
		if err != nil {
			slog.Warn("Cannot read inference cache", "error", err)
		}
		if ok {
			slog.Info("Using cached inference results", "key", key)
			i.rows, i.cached = rows, true
		}
	}

	if !i.cached {
		if i.rows, err = i.infer(ctx, cfg, s); err != nil {
			return err
		}
		if cache != nil {
			if err = cache.Set(key, i.rows); err != nil {
				slog.Warn("Cannot save inference results to cache", "error", err)
			}
		}
	}

	if err = ioexport.WriteFile(cfg.Inference.OutputFile, s.format, i.rows); err != nil {
		return err
	}
	if cfg.Inference.ExportToDB {
		if err = i.export(ctx, cfg, s); err != nil {
			return err
		}
	}

	dur := gnfmt.TimeString(time.Since(start).Seconds())
	slog.Info("Inference complete",
		"method", s.method,
		"proteins", len(i.rows),
		"cached", i.cached,
		"duration", dur,
	)
	gn.Info("Reported <em>%s</em> proteins with %s. Elapsed time: <em>%s</em>",
		humanize.Comma(int64(len(i.rows))), s.method, dur)
	iologger.PrintAnomalies(i.anomalies)
	return nil
}

// openCache returns nil if the cache is disabled or unusable, the
// inference runs without it then.
func (i *InferrerImpl) openCache(
	cfg *config.Config,
	s settings,
) (*iocache.Cache, string) {
	if !cfg.Cache.Enabled {
		return nil, ""
	}
	key, err := iocache.Key(s.compiledFile, s.cacheParts()...)
	if err != nil {
		slog.Warn("Cannot create inference cache key", "error", err)
		return nil, ""
	}
	dir := config.InferenceCacheDir(cfg.HomeDir)
	cache, err := iocache.New(dir)
	if err == nil {
		err = cache.Open()
	}
	if err != nil {
		slog.Warn("Inference cache is not available", "error", err)
		return nil, ""
	}
	return cache, key
}

func (i *InferrerImpl) infer(
	ctx context.Context,
	cfg *config.Config,
	s settings,
) ([]report.Row, error) {
	compiled, err := iostore.Load(ctx, s.compiledFile)
	if err != nil {
		return nil, err
	}

	sets := report.BuildPSMSets(compiled.Store, s.keys, s.createSets)
	scoreName := i.prepareScores(sets, s.score)

	sc, err := scoring.New(string(s.scoring), scoreName, s.psmForScoring)
	if err != nil {
		return nil, ScoringError(err)
	}
	engine, err := inference.New(string(s.method), inference.Settings{
		Filters:               s.filters,
		Scoring:               sc,
		ConsiderModifications: s.consMods,
		Jobs:                  cfg.JobsNumber,
		Anomalies:             i.anomalies,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Starting inference",
		"method", s.method,
		"scoring", s.scoring,
		"score", scoreName,
		"filters", len(s.filters),
		"psm_sets", humanize.Comma(int64(len(sets.Sets()))),
	)
	data := inference.Data{
		Store:  compiled.Store,
		Groups: compiled.Groups,
		Sets:   sets,
	}
	prots, err := runWithProgress(ctx, engine, data)
	if err != nil {
		return nil, err
	}
	return report.Rows(prots), nil
}

// prepareScores ranks PSMs and estimates the FDR by the main score of
// the data. It returns the score to use for protein scoring: the
// configured one, unless it is the combined FDR score and there are no
// decoys to compute it from.
func (i *InferrerImpl) prepareScores(sets *report.PSMSetMap, name string) string {
	main := sets.MainScore()
	sets.RankPSMs(main)

	stats, ok := sets.CalculateFDR(main, fdrThreshold)
	if ok {
		slog.Info("FDR estimated",
			"score", main,
			"targets", stats.NrTargets,
			"decoys", stats.NrDecoys,
			"fdr_good_targets", stats.NrFDRGoodTargets,
		)
	}

	switch {
	case name == "":
		return main
	case (name == score.PSMCombinedFDRScore || name == score.PSMFDRScore) && !ok:
		gn.Warn("<warn>No decoys for FDR estimation</warn>, scoring by %s", main)
		slog.Warn("Cannot compute FDR scores without decoys", "fallback", main)
		return main
	}
	return name
}

// runWithProgress shows the progress of the engine while it works.
func runWithProgress(
	ctx context.Context,
	engine inference.Engine,
	data inference.Data,
) ([]*report.Protein, error) {
	bar := pb.Full.Start(100)
	bar.Set("prefix", "Inferring proteins: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.SetCurrent(int64(min(engine.Progress(), 100)))
			}
		}
	}()

	prots, err := engine.Infer(ctx, data)
	close(done)
	if err != nil {
		return nil, err
	}
	bar.SetCurrent(100)
	return prots, nil
}

func (i *InferrerImpl) export(
	ctx context.Context,
	cfg *config.Config,
	s settings,
) error {
	if i.operator == nil {
		return ioexport.NotConnectedError()
	}
	if err := i.operator.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer i.operator.Close()

	run := ioexport.Run{
		CompiledFile:          s.compiledFile,
		Method:                string(s.method),
		Scoring:               string(s.scoring),
		Score:                 s.score,
		PSMForScoring:         s.psmForScoring,
		ConsiderModifications: s.consMods,
		Filters:               s.filterStrings(),
	}
	runID, err := ioexport.NewDBExporter(i.operator).Export(ctx, run, i.rows)
	if err != nil {
		return err
	}
	gn.Info("Exported to PostgreSQL database <em>%s</em>, run <em>%s</em>",
		cfg.Database.Database, runID)
	return nil
}
