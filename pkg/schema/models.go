// Package schema provides gorm models of the PostgreSQL tables that keep
// exported inference results. Every model carries `gorm` tags for
// AutoMigrate and `db` tags that name columns for bulk CopyFrom loading.
package schema

import (
	"time"

	"gorm.io/gorm"
)

// InferenceRun describes one inference run whose results were exported.
type InferenceRun struct {
	// ID is a random UUID assigned at export.
	ID string `db:"id" gorm:"type:uuid;primaryKey"`

	// CompiledFile is the path of the compiled structure.
	CompiledFile string `db:"compiled_file" gorm:"type:text;not null"`

	// Method is the inference method.
	Method string `db:"method" gorm:"type:varchar(50);not null"`

	// Scoring is the protein scoring strategy.
	Scoring string `db:"scoring" gorm:"type:varchar(50)"`

	// Score is the name of the PSM score used for scoring.
	Score string `db:"score" gorm:"type:varchar(255)"`

	PSMForScoring string `db:"psm_for_scoring" gorm:"type:varchar(10)"`

	ConsiderModifications bool `db:"consider_modifications" gorm:"not null;default:false"`

	// Filters are active filters in command line notation, one per line.
	Filters string `db:"filters" gorm:"type:text"`

	// ProteinsNumber is the number of reported proteins.
	ProteinsNumber int `db:"proteins_number" gorm:"not null;default:0"`

	// Version of gnpia that created the run.
	Version string `db:"version" gorm:"type:varchar(50)"`

	CreatedAt time.Time `db:"created_at" gorm:"not null"`
}

// ReportedProtein is a protein (or a group of indistinguishable
// proteins) reported by an inference run.
type ReportedProtein struct {
	// ID is UUID v5 of the run id and sorted accessions.
	ID string `db:"id" gorm:"type:uuid;primaryKey"`

	RunID string `db:"run_id" gorm:"type:uuid;not null;index"`

	// Rank is 1-based, equal scores share a rank.
	Rank int `db:"rank" gorm:"not null"`

	Score float64 `db:"score"`

	NrPeptides int `db:"nr_peptides" gorm:"not null"`

	NrPSMs int `db:"nr_psms" gorm:"not null"`

	NrSpectra int `db:"nr_spectra" gorm:"not null"`
}

// ProteinAccession is one accession of a reported protein.
type ProteinAccession struct {
	ProteinID string `db:"protein_id" gorm:"type:uuid;not null;index"`

	RunID string `db:"run_id" gorm:"type:uuid;not null;index"`

	Accession string `db:"accession" gorm:"type:varchar(255);not null;index"`

	Description string `db:"description" gorm:"type:text"`
}

// ProteinPeptide is a peptide that supports a reported protein.
type ProteinPeptide struct {
	ProteinID string `db:"protein_id" gorm:"type:uuid;not null;index"`

	RunID string `db:"run_id" gorm:"type:uuid;not null"`

	// Peptide is the peptide string id, with modifications when they
	// are considered.
	Peptide string `db:"peptide" gorm:"type:text;not null"`

	NrPSMs int `db:"nr_psms" gorm:"not null"`
}

// ProteinSubset is a protein whose evidence is a subset of a reported
// protein.
type ProteinSubset struct {
	ProteinID string `db:"protein_id" gorm:"type:uuid;not null;index"`

	RunID string `db:"run_id" gorm:"type:uuid;not null"`

	// Accessions of the subset protein joined by ';'.
	Accessions string `db:"accessions" gorm:"type:text;not null"`

	Score float64 `db:"score"`
}

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&InferenceRun{},
		&ReportedProtein{},
		&ProteinAccession{},
		&ProteinPeptide{},
		&ProteinSubset{},
	}
}

// TableNames returns tables of AllModels in creation order.
func TableNames() []string {
	models := AllModels()
	res := make([]string, 0, len(models))
	for _, m := range models {
		if t, ok := m.(Tabler); ok {
			res = append(res, t.TableName())
		}
	}
	return res
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

func (InferenceRun) TableName() string     { return "inference_runs" }
func (ReportedProtein) TableName() string  { return "reported_proteins" }
func (ProteinAccession) TableName() string { return "protein_accessions" }
func (ProteinPeptide) TableName() string   { return "protein_peptides" }
func (ProteinSubset) TableName() string    { return "protein_subsets" }
