package ioexport

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	gnpia "github.com/gnames/gnpia/pkg"
	"github.com/gnames/gnpia/pkg/db"
	"github.com/gnames/gnpia/pkg/report"
	"github.com/gnames/gnpia/pkg/schema"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Run describes the inference run whose results are exported.
type Run struct {
	CompiledFile          string
	Method                string
	Scoring               string
	Score                 string
	PSMForScoring         string
	ConsiderModifications bool
	Filters               []string
}

// DBExporter loads reported proteins into the results schema.
type DBExporter struct {
	operator db.Operator
}

// NewDBExporter creates an exporter that uses a connected operator.
func NewDBExporter(op db.Operator) *DBExporter {
	return &DBExporter{operator: op}
}

// tables keeps CopyFrom rows of every results table.
type tables struct {
	runs     []schema.InferenceRun
	proteins []schema.ReportedProtein
	accs     []schema.ProteinAccession
	peps     []schema.ProteinPeptide
	subsets  []schema.ProteinSubset
}

// ProteinID returns the id of a reported protein. It is the same for
// the same accessions within a run.
func ProteinID(runID string, accessions []string) string {
	return gnuuid.New(runID + "|" + strings.Join(accessions, ";")).String()
}

func newTables(run Run, rows []report.Row) tables {
	runID := uuid.NewString()
	res := tables{
		runs: []schema.InferenceRun{{
			ID:                    runID,
			CompiledFile:          run.CompiledFile,
			Method:                run.Method,
			Scoring:               run.Scoring,
			Score:                 run.Score,
			PSMForScoring:         run.PSMForScoring,
			ConsiderModifications: run.ConsiderModifications,
			Filters:               strings.Join(run.Filters, "\n"),
			ProteinsNumber:        len(rows),
			Version:               gnpia.Version,
			CreatedAt:             time.Now().UTC(),
		}},
	}

	for _, r := range rows {
		id := ProteinID(runID, r.Accessions)
		res.proteins = append(res.proteins, schema.ReportedProtein{
			ID:         id,
			RunID:      runID,
			Rank:       r.Rank,
			Score:      r.Score,
			NrPeptides: r.NrPeptides,
			NrPSMs:     r.NrPSMs,
			NrSpectra:  r.NrSpectra,
		})
		for i, acc := range r.Accessions {
			pa := schema.ProteinAccession{ProteinID: id, RunID: runID, Accession: acc}
			if i < len(r.Descriptions) {
				pa.Description = r.Descriptions[i]
			}
			res.accs = append(res.accs, pa)
		}
		for _, pep := range r.Peptides {
			res.peps = append(res.peps, schema.ProteinPeptide{
				ProteinID: id,
				RunID:     runID,
				Peptide:   pep.StringID,
				NrPSMs:    pep.NrPSMs,
			})
		}
		for _, sub := range r.Subsets {
			res.subsets = append(res.subsets, schema.ProteinSubset{
				ProteinID:  id,
				RunID:      runID,
				Accessions: strings.Join(sub.Accessions, ";"),
				Score:      sub.Score,
			})
		}
	}
	return res
}

type copySource struct {
	table   string
	columns []string
	rows    [][]any
}

func (t tables) sources() []copySource {
	return []copySource{
		source(t.runs),
		source(t.proteins),
		source(t.accs),
		source(t.peps),
		source(t.subsets),
	}
}

func source[T schema.Tabler](models []T) copySource {
	var model T
	return copySource{
		table:   model.TableName(),
		columns: schema.Columns(model),
		rows:    schema.Rows(models),
	}
}

// Export writes rows of one inference run in a single transaction and
// returns the run id.
func (e *DBExporter) Export(
	ctx context.Context,
	run Run,
	rows []report.Row,
) (string, error) {
	pool := e.operator.Pool()
	if pool == nil {
		return "", NotConnectedError()
	}

	t := newTables(run, rows)
	tx, err := pool.Begin(ctx)
	if err != nil {
		return "", DBError("inference_runs", err)
	}
	defer tx.Rollback(ctx)

	for _, src := range t.sources() {
		if len(src.rows) == 0 {
			continue
		}
		n, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{src.table},
			src.columns,
			pgx.CopyFromRows(src.rows),
		)
		if err != nil {
			return "", DBError(src.table, err)
		}
		slog.Debug("Exported rows", "table", src.table, "rows", n)
	}
	if err = tx.Commit(ctx); err != nil {
		return "", DBError("inference_runs", err)
	}

	runID := t.runs[0].ID
	slog.Info("Reported proteins exported to PostgreSQL",
		"run_id", runID,
		"proteins", humanize.Comma(int64(len(rows))),
	)
	return runID, nil
}
