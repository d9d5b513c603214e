package iocache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/internal/iocache"
	"github.com/gnames/gnpia/pkg/errcode"
	"github.com/gnames/gnpia/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows() []report.Row {
	return []report.Row{
		{
			Rank:       1,
			Score:      42.5,
			Accessions: []string{"P1", "P2"},
			NrPeptides: 2,
			NrPSMs:     3,
			NrSpectra:  3,
			Peptides: []report.PeptideRow{
				{StringID: "AAAK", Sequence: "AAAK", NrPSMs: 2},
				{StringID: "BBBK", Sequence: "BBBK", NrPSMs: 1},
			},
			Subsets: []report.SubsetRow{{Accessions: []string{"P3"}, Score: 2}},
		},
		{Rank: 2, Score: 1, Accessions: []string{"P4"}},
	}
}

func TestCache(t *testing.T) {
	assert := assert.New(t)
	dir := filepath.Join(t.TempDir(), "inference")
	c, err := iocache.New(dir)
	require.NoError(t, err)
	require.NoError(t, c.Open())
	// second open is a no-op
	require.NoError(t, c.Open())

	res, ok, err := c.Get("none")
	require.NoError(t, err)
	assert.False(ok)
	assert.Nil(res)

	require.NoError(t, c.Set("key", rows()))
	res, ok, err = c.Get("key")
	require.NoError(t, err)
	assert.True(ok)
	assert.Equal(rows(), res)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	// entries survive reopening
	c, err = iocache.New(dir)
	require.NoError(t, err)
	require.NoError(t, c.Open())
	_, ok, err = c.Get("key")
	require.NoError(t, err)
	assert.True(ok)

	require.NoError(t, c.Clear())
	_, ok, err = c.Get("key")
	require.NoError(t, err)
	assert.False(ok)
	require.NoError(t, c.Close())
}

func TestCacheNotOpen(t *testing.T) {
	c, err := iocache.New(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		msg string
		fn  func() error
	}{
		{"get", func() error { _, _, err := c.Get("key"); return err }},
		{"set", func() error { return c.Set("key", rows()) }},
		{"clear", c.Clear},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			err := v.fn()
			require.Error(t, err)
			gnErr, ok := err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, errcode.CacheNotOpenError, gnErr.Code)
		})
	}
}

func TestKey(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "compiled.sqlite")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0644))

	k1, err := iocache.Key(path, "occams_razor", "scoring_additive")
	require.NoError(t, err)
	k2, err := iocache.Key(path, "occams_razor", "scoring_additive")
	require.NoError(t, err)
	assert.Equal(k1, k2)

	k3, err := iocache.Key(path, "report_all", "scoring_additive")
	require.NoError(t, err)
	assert.NotEqual(k1, k3)

	// a new compiled file at the same path
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	k4, err := iocache.Key(path, "occams_razor", "scoring_additive")
	require.NoError(t, err)
	assert.NotEqual(k1, k4)

	_, err = iocache.Key(filepath.Join(t.TempDir(), "none"))
	assert.Error(err)
}
