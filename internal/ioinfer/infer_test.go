package ioinfer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/internal/iocompile"
	"github.com/gnames/gnpia/internal/ioinfer"
	"github.com/gnames/gnpia/internal/iotesting"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/gnames/gnpia/pkg/errcode"
	"github.com/gnames/gnpia/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compiled compiles test files into a temporary SQLite file.
func compiled(t *testing.T, inputs ...string) string {
	t.Helper()
	paths := make([]string, len(inputs))
	for i, v := range inputs {
		paths[i] = filepath.Join("testdata", v)
	}
	out := filepath.Join(t.TempDir(), "compiled.sqlite")
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptCompileInputFiles(paths),
		config.OptCompileOutputFile(out),
	})
	require.NoError(t, iocompile.New().Compile(context.Background(), cfg))
	return out
}

func inferConfig(t *testing.T, compiledFile string, opts ...config.Option) *config.Config {
	t.Helper()
	cfg := iotesting.SetupHomeDir(t)
	base := []config.Option{
		config.OptInferenceCompiledFile(compiledFile),
		config.OptInferenceOutputFile(filepath.Join(t.TempDir(), "proteins.tsv")),
		config.OptInferenceScoring("scoring_additive"),
		config.OptInferenceScore("mascot_score"),
		config.OptCacheEnabled(false),
		config.OptJobsNumber(2),
	}
	cfg.Update(append(base, opts...))
	return cfg
}

func accessions(rows []report.Row) [][]string {
	res := make([][]string, len(rows))
	for i, r := range rows {
		res[i] = r.Accessions
	}
	return res
}

func TestInfer(t *testing.T) {
	assert := assert.New(t)
	path := compiled(t, "engine1.tsv")
	cfg := inferConfig(t, path)

	inf := ioinfer.New(nil)
	require.NoError(t, inf.Infer(context.Background(), cfg))
	assert.False(inf.Cached())

	rows := inf.Rows()
	require.Len(t, rows, 2)
	assert.Equal([][]string{{"P2"}, {"P1"}}, accessions(rows))
	assert.Equal(50.0, rows[0].Score)
	assert.Equal(1, rows[0].Rank)
	assert.Equal(30.0, rows[1].Score)
	require.Len(t, rows[1].Subsets, 1)
	assert.Equal([]string{"P3"}, rows[1].Subsets[0].Accessions)

	data, err := os.ReadFile(cfg.Inference.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(lines, 3)
}

func TestInferMethods(t *testing.T) {
	path := compiled(t, "engine1.tsv")
	tests := []struct {
		method string
		accs   [][]string
	}{
		{"occams_razor", [][]string{{"P2"}, {"P1"}}},
		{"spectrum_extractor", [][]string{{"P2"}, {"P1"}}},
		{"report_all", [][]string{{"P2"}, {"P1"}, {"P3"}}},
	}
	for _, v := range tests {
		t.Run(v.method, func(t *testing.T) {
			cfg := inferConfig(t, path, config.OptInferenceMethod(v.method))
			inf := ioinfer.New(nil)
			require.NoError(t, inf.Infer(context.Background(), cfg))
			assert.Equal(t, v.accs, accessions(inf.Rows()))
		})
	}
}

func TestInferDefaultScoring(t *testing.T) {
	// psm_combined_fdr_score needs decoys, without them the main score
	// of the data is used
	path := compiled(t, "engine1.tsv")
	cfg := inferConfig(t, path,
		config.OptInferenceScoring("scoring_multiplicative"),
		config.OptInferenceScore("psm_combined_fdr_score"),
	)
	inf := ioinfer.New(nil)
	require.NoError(t, inf.Infer(context.Background(), cfg))
	assert.Len(t, inf.Rows(), 2)

	// with decoys FDR scores are computed
	path = compiled(t, "engine1.tsv", "engine2.tsv")
	cfg = inferConfig(t, path,
		config.OptInferenceScoring("scoring_multiplicative"),
		config.OptInferenceScore("psm_combined_fdr_score"),
	)
	require.NoError(t, inf.Infer(context.Background(), cfg))
	assert.NotEmpty(t, inf.Rows())
}

func TestInferFilters(t *testing.T) {
	path := compiled(t, "engine1.tsv")
	yml := filepath.Join(t.TempDir(), "filters.yaml")
	err := os.WriteFile(yml, []byte(`filters:
  - field: psm_score:mascot_score
    comparator: GEQ
    value: "15"
`), 0644)
	require.NoError(t, err)

	tests := []struct {
		msg string
		opt config.Option
	}{
		{"command line", config.OptInferenceFilters([]string{"psm_score:mascot_score GEQ 15"})},
		{"yaml file", config.OptInferenceFiltersFile(yml)},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			inf := ioinfer.New(nil)
			require.NoError(t, inf.Infer(context.Background(), inferConfig(t, path, v.opt)))
			rows := inf.Rows()
			require.Len(t, rows, 1)
			assert.Equal(t, []string{"P2"}, rows[0].Accessions)
			require.Len(t, rows[0].Subsets, 1)
			assert.Equal(t, []string{"P1"}, rows[0].Subsets[0].Accessions)
		})
	}
}

func TestInferCache(t *testing.T) {
	assert := assert.New(t)
	path := compiled(t, "engine1.tsv")
	cfg := inferConfig(t, path, config.OptCacheEnabled(true))

	inf := ioinfer.New(nil)
	require.NoError(t, inf.Infer(context.Background(), cfg))
	assert.False(inf.Cached())
	first := inf.Rows()

	require.NoError(t, inf.Infer(context.Background(), cfg))
	assert.True(inf.Cached())
	assert.Equal(first, inf.Rows())

	// other settings miss the cache
	cfg.Update([]config.Option{config.OptInferenceMethod("report_all")})
	require.NoError(t, inf.Infer(context.Background(), cfg))
	assert.False(inf.Cached())
}

func TestInferSettingsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-read.sqlite")
	tests := []struct {
		msg  string
		fn   func(*config.Config)
		code gn.ErrorCode
	}{
		{"no compiled file", func(c *config.Config) { c.Inference.CompiledFile = "" },
			errcode.InferenceError},
		{"unknown method", func(c *config.Config) { c.Inference.Method = "majority_vote" },
			errcode.InferenceUnknownMethodError},
		{"unknown scoring", func(c *config.Config) { c.Inference.Scoring = "scoring_max" },
			errcode.InferenceUnknownScoringError},
		{"psm for scoring", func(c *config.Config) { c.Inference.PSMForScoring = "worst" },
			errcode.InferenceError},
		{"key settings", func(c *config.Config) { c.Inference.PSMSetSettings = []string{"color"} },
			errcode.InferenceError},
		{"bad filter", func(c *config.Config) { c.Inference.Filters = []string{"shoe_size GT 1"} },
			errcode.InferenceFilterError},
		{"filters file", func(c *config.Config) { c.Inference.FiltersFile = path },
			errcode.ReadFileError},
		{"output format", func(c *config.Config) { c.Inference.OutputFormat = "xml" },
			errcode.ExportFormatError},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			cfg := inferConfig(t, path)
			v.fn(cfg)
			err := ioinfer.New(nil).Infer(context.Background(), cfg)
			require.Error(t, err)
			gnErr, ok := err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, v.code, gnErr.Code)
		})
	}
}

func TestInferMissingCompiledFile(t *testing.T) {
	cfg := inferConfig(t, filepath.Join(t.TempDir(), "none.sqlite"))
	err := ioinfer.New(nil).Infer(context.Background(), cfg)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.StoreOpenError, gnErr.Code)
}

func TestInferExportNoOperator(t *testing.T) {
	path := compiled(t, "engine1.tsv")
	cfg := inferConfig(t, path, config.OptInferenceExportToDB(true))
	err := ioinfer.New(nil).Infer(context.Background(), cfg)
	assert.Error(t, err)
}
