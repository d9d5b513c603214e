package ioexport_test

import (
	"context"
	"testing"

	"github.com/gnames/gnpia/internal/iodb"
	"github.com/gnames/gnpia/internal/ioexport"
	"github.com/gnames/gnpia/internal/ioschema"
	"github.com/gnames/gnpia/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProteinID(t *testing.T) {
	id1 := ioexport.ProteinID("run", []string{"P1", "P2"})
	assert.Equal(t, id1, ioexport.ProteinID("run", []string{"P1", "P2"}))
	assert.NotEqual(t, id1, ioexport.ProteinID("run", []string{"P1"}))
	assert.NotEqual(t, id1, ioexport.ProteinID("other", []string{"P1", "P2"}))
}

func TestExportNotConnected(t *testing.T) {
	e := ioexport.NewDBExporter(iodb.NewPgxOperator())
	_, err := e.Export(context.Background(), ioexport.Run{}, rows())
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()
	require.NoError(t, op.DropAllTables(ctx))
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))

	e := ioexport.NewDBExporter(op)
	run := ioexport.Run{
		CompiledFile: "compiled.sqlite",
		Method:       "occams_razor",
		Scoring:      "scoring_additive",
		Score:        "mascot_score",
		Filters:      []string{"charge GT 1"},
	}
	runID, err := e.Export(ctx, run, rows())
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	tests := []struct {
		table string
		count int64
	}{
		{"inference_runs", 1},
		{"reported_proteins", 2},
		{"protein_accessions", 3},
		{"protein_peptides", 3},
		{"protein_subsets", 2},
	}
	for _, v := range tests {
		t.Run(v.table, func(t *testing.T) {
			n, err := op.CountRows(ctx, v.table)
			require.NoError(t, err)
			assert.Equal(t, v.count, n)
		})
	}
}
