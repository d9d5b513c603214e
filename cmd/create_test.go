package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gnames/gnpia/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memOperator keeps row counts of tables in memory.
type memOperator struct {
	tables  map[string]int64
	dropped bool
	err     error
}

func (m *memOperator) Connect(context.Context, *config.DatabaseConfig) error {
	return nil
}

func (m *memOperator) Close() error { return nil }

func (m *memOperator) Pool() *pgxpool.Pool { return nil }

func (m *memOperator) TableExists(_ context.Context, name string) (bool, error) {
	_, ok := m.tables[name]
	return ok, m.err
}

func (m *memOperator) HasTables(context.Context) (bool, error) {
	return len(m.tables) > 0, m.err
}

func (m *memOperator) DropAllTables(context.Context) error {
	m.tables = map[string]int64{}
	m.dropped = true
	return nil
}

func (m *memOperator) CountRows(_ context.Context, name string) (int64, error) {
	return m.tables[name], m.err
}

func resultsDB(runs int64) map[string]int64 {
	return map[string]int64{
		"inference_runs":     runs,
		"reported_proteins":  runs * 10,
		"protein_accessions": runs * 12,
		"protein_peptides":   runs * 40,
		"protein_subsets":    runs * 2,
	}
}

func TestClearResults(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		msg     string
		tables  map[string]int64
		input   string
		force   bool
		ok      bool
		dropped bool
	}{
		{"empty db", map[string]int64{}, "", false, true, false},
		{"force", resultsDB(3), "", true, true, true},
		{"yes", resultsDB(3), "yes\n", false, true, true},
		{"y upper", resultsDB(3), " Y \n", false, true, true},
		{"no", resultsDB(3), "no\n", false, false, false},
		{"no answer", resultsDB(3), "", false, false, false},
		{"other tables", map[string]int64{"taxa": 5}, "yes", false, true, true},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			op := &memOperator{tables: v.tables}
			ok, err := clearResults(ctx, op, strings.NewReader(v.input), v.force)
			require.NoError(t, err)
			assert.Equal(t, v.ok, ok)
			assert.Equal(t, v.dropped, op.dropped)
			if !v.dropped {
				assert.Equal(t, len(v.tables), len(op.tables))
			}
		})
	}
}

func TestClearResultsError(t *testing.T) {
	op := &memOperator{tables: resultsDB(1), err: errors.New("conn lost")}
	ok, err := clearResults(context.Background(), op, strings.NewReader("yes"), true)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.False(t, op.dropped)
}

func TestStoredRuns(t *testing.T) {
	ctx := context.Background()

	runs, err := storedRuns(ctx, &memOperator{tables: resultsDB(7)})
	require.NoError(t, err)
	assert.Equal(t, int64(7), runs)

	runs, err = storedRuns(ctx, &memOperator{tables: map[string]int64{"taxa": 5}})
	require.NoError(t, err)
	assert.Zero(t, runs)
}

func TestResultTables(t *testing.T) {
	ctx := context.Background()

	res, err := resultTables(ctx, &memOperator{tables: resultsDB(2)})
	require.NoError(t, err)
	require.Len(t, res, 5)
	assert.Equal(t, tableRows{name: "inference_runs", rows: 2}, res[0])
	assert.Equal(t, tableRows{name: "protein_peptides", rows: 80}, res[3])

	tables := resultsDB(0)
	delete(tables, "protein_subsets")
	_, err = resultTables(ctx, &memOperator{tables: tables})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "protein_subsets")
}

func TestGetCreateCmd(t *testing.T) {
	cmd := getCreateCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "create", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.Contains(t, cmd.Short, "inference results")
	for _, table := range []string{
		"inference_runs", "reported_proteins", "protein_accessions",
		"protein_peptides", "protein_subsets",
	} {
		assert.Contains(t, cmd.Long, table)
	}

	force := cmd.Flags().Lookup("force")
	require.NotNil(t, force)
	assert.Equal(t, "f", force.Shorthand)
	assert.Equal(t, "false", force.DefValue)
	assert.Contains(t, force.Usage, "stored results")

	assert.NotSame(t, cmd, getCreateCmd())
}

func TestGetCreateCmdHelp(t *testing.T) {
	cmd := getCreateCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	help := buf.String()
	assert.Contains(t, help, "Examples:")
	assert.Contains(t, help, "gnpia create --force")
	assert.Contains(t, help, "gnpia infer --db")
}
