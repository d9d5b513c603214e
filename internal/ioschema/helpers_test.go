package ioschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollationSQL(t *testing.T) {
	tests := []struct {
		table, column string
		expected      string
	}{
		{
			table:  "protein_accessions",
			column: "accession",
			expected: `ALTER TABLE protein_accessions ` +
				`ALTER COLUMN accession TYPE TEXT COLLATE "C"`,
		},
		{
			table:  "protein_peptides",
			column: "peptide",
			expected: `ALTER TABLE protein_peptides ` +
				`ALTER COLUMN peptide TYPE TEXT COLLATE "C"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.expected, collationSQL(tt.table, tt.column))
		})
	}
}
