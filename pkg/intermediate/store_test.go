package intermediate_test

import (
	"sync"
	"testing"

	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInsert(t *testing.T) {
	s := intermediate.NewStore()
	f := s.AddInputFile("a.tsv", "/tmp/a.tsv", "tsv")
	assert.Equal(t, int64(1), f.ID)

	a1 := s.InsertAccession("P1", "")
	a2 := s.InsertAccession("P2", "MKV")
	again := s.InsertAccession("P1", "MAAK")
	assert.Equal(t, int64(1), a1.ID)
	assert.Equal(t, int64(2), a2.ID)
	assert.Same(t, a1, again)
	assert.Equal(t, "MAAK", a1.Sequence, "sequence is filled when missing")

	require.NoError(t, s.AddAccessionFile(a1.ID, f.ID, "protein one", "uniprot"))
	require.NoError(t, s.AddAccessionFile(a1.ID, f.ID, "", "uniprot"))
	assert.True(t, a1.FileIDs.Has(f.ID))
	assert.Equal(t, "protein one", a1.Description())
	assert.Equal(t, []string{"uniprot"}, a1.DBRefs)

	p := s.InsertPeptide("PEPTIDE")
	assert.Same(t, p, s.InsertPeptide("PEPTIDE"))
	assert.Same(t, p, s.PeptideBySequence("PEPTIDE"))
	assert.Same(t, a2, s.AccessionByName("P2"))

	psm, err := s.InsertPSM(&intermediate.PSM{
		FileID:    f.ID,
		Sequence:  "PEPTIDE",
		PeptideID: p.ID,
		Modifications: []intermediate.Modification{
			{Position: 5, Mass: 15.9949},
			{Position: 1, Mass: 42.0106},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), psm.ID)
	assert.Equal(t, []int64{1}, p.PSMIDs)
	assert.Equal(t, 1, psm.Modifications[0].Position, "modifications are sorted")

	_, err = s.InsertPSM(&intermediate.PSM{PeptideID: 42})
	assert.Error(t, err)

	assert.Nil(t, s.Accession(99))
	assert.Nil(t, s.PSM(0))
	assert.Len(t, s.Accessions(), 2)
	assert.Len(t, s.Peptides(), 1)
	assert.Len(t, s.PSMs(), 1)
	assert.Len(t, s.InputFiles(), 1)
}

func TestStoreConnections(t *testing.T) {
	s := intermediate.NewStore()
	a := s.InsertAccession("P1", "")
	p := s.InsertPeptide("AAA")

	require.NoError(t, s.AddAccessionPeptideConnection(a.ID, p.ID))
	assert.Error(t, s.AddAccessionPeptideConnection(a.ID, 7))
	assert.Error(t, s.AddAccessionPeptideConnection(7, p.ID))

	require.NoError(t, s.AddOccurrence(p.ID, intermediate.Occurrence{
		AccessionID: a.ID, Start: 3, Stop: 5,
	}))
	require.NoError(t, s.AddOccurrence(p.ID, intermediate.Occurrence{
		AccessionID: a.ID, Start: 3, Stop: 5,
	}))
	assert.Len(t, p.Occurrences, 1)

	clusters := s.Clusters()
	require.Len(t, clusters, 1)
	assert.Equal(t, []int64{a.ID}, clusters[0].Accessions)

	err := s.AddAccessionPeptideConnection(a.ID, p.ID)
	assert.Error(t, err, "adjacency is released after partitioning")
}

func TestStoreConcurrentInsert(t *testing.T) {
	s := intermediate.NewStore()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, acc := range []string{"P1", "P2", "P3"} {
				s.InsertAccession(acc, "")
			}
		}()
	}
	wg.Wait()

	accs := s.Accessions()
	require.Len(t, accs, 3)
	for i, a := range accs {
		assert.Equal(t, int64(i+1), a.ID)
	}
}

func TestStoreRestore(t *testing.T) {
	s := intermediate.NewStore()
	require.NoError(t, s.RestoreAccession(&intermediate.Accession{
		ID: 1, Accession: "P1",
	}))
	assert.Error(t, s.RestoreAccession(&intermediate.Accession{
		ID: 3, Accession: "P3",
	}))
	assert.NotNil(t, s.AccessionByName("P1").FileIDs)
	require.NoError(t, s.RestorePeptide(&intermediate.Peptide{ID: 1, Sequence: "AK"}))
	require.NoError(t, s.RestorePSM(&intermediate.PSM{ID: 1, PeptideID: 1}))
	require.NoError(t, s.RestoreInputFile(&intermediate.InputFile{ID: 1}))
	assert.NotNil(t, s.PeptideBySequence("AK"))
}
