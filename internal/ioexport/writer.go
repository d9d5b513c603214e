// Package ioexport writes reported proteins to files or STDOUT as TSV,
// CSV or JSON, and exports them to PostgreSQL.
package ioexport

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnpia/pkg/report"
)

// Format of the output of reported proteins.
type Format string

const (
	TSV  Format = "tsv"
	CSV  Format = "csv"
	JSON Format = "json"
)

// Header of TSV and CSV outputs.
var Header = []string{
	"rank", "score", "accessions", "description", "decoy",
	"nr_peptides", "nr_unique_peptides", "nr_psms", "nr_spectra",
	"peptides", "subsets",
}

// ParseFormat converts a format name to Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case TSV, CSV, JSON:
		return f, nil
	case "":
		return TSV, nil
	}
	return "", FormatError(s)
}

// WriteFile writes rows to path, an empty path or "-" means STDOUT.
func WriteFile(path string, f Format, rows []report.Row) error {
	if path == "" || path == "-" {
		return Write(os.Stdout, f, rows)
	}
	file, err := os.Create(path)
	if err != nil {
		return WriteError(path, err)
	}
	if err = Write(file, f, rows); err != nil {
		file.Close()
		return err
	}
	if err = file.Close(); err != nil {
		return WriteError(path, err)
	}
	return nil
}

// Write writes rows to w in the given format.
func Write(w io.Writer, f Format, rows []report.Row) error {
	bw := bufio.NewWriter(w)
	var err error
	switch f {
	case TSV:
		err = writeCSV(bw, '\t', rows)
	case CSV:
		err = writeCSV(bw, ',', rows)
	case JSON:
		err = writeJSON(bw, rows)
	default:
		return FormatError(string(f))
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return WriteError(string(f)+" output", err)
	}
	return nil
}

func writeCSV(w *bufio.Writer, sep rune, rows []report.Row) error {
	if _, err := w.WriteString(gnfmt.ToCSV(Header, sep) + "\n"); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Rank),
			formatScore(r.Score),
			strings.Join(r.Accessions, ";"),
			r.Description,
			strconv.FormatBool(r.Decoy),
			strconv.Itoa(r.NrPeptides),
			strconv.Itoa(r.NrUniquePeptides),
			strconv.Itoa(r.NrPSMs),
			strconv.Itoa(r.NrSpectra),
			peptidesField(r.Peptides),
			subsetsField(r.Subsets),
		}
		if _, err := w.WriteString(gnfmt.ToCSV(rec, sep) + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func formatScore(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func peptidesField(peps []report.PeptideRow) string {
	res := make([]string, len(peps))
	for i, p := range peps {
		res[i] = p.StringID
	}
	return strings.Join(res, ";")
}

// subsetsField joins accessions of a subset with ';' and subsets with
// '|'.
func subsetsField(subs []report.SubsetRow) string {
	res := make([]string, len(subs))
	for i, s := range subs {
		res[i] = strings.Join(s.Accessions, ";")
	}
	return strings.Join(res, "|")
}

type protein struct {
	Rank             int       `json:"rank"`
	Score            *float64  `json:"score"`
	Accessions       []string  `json:"accessions"`
	Descriptions     []string  `json:"descriptions,omitempty"`
	Decoy            bool      `json:"decoy,omitempty"`
	NrPeptides       int       `json:"nrPeptides"`
	NrUniquePeptides int       `json:"nrUniquePeptides"`
	NrPSMs           int       `json:"nrPsms"`
	NrSpectra        int       `json:"nrSpectra"`
	Peptides         []peptide `json:"peptides"`
	Subsets          []subset  `json:"subsets,omitempty"`
}

type peptide struct {
	ID       string `json:"id"`
	Sequence string `json:"sequence"`
	NrPSMs   int    `json:"nrPsms"`
}

type subset struct {
	Accessions []string `json:"accessions"`
	Score      *float64 `json:"score"`
}

// scorePtr hides NaN scores from JSON, which cannot encode them.
func scorePtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func writeJSON(w *bufio.Writer, rows []report.Row) error {
	prots := make([]protein, len(rows))
	for i, r := range rows {
		p := protein{
			Rank:             r.Rank,
			Score:            scorePtr(r.Score),
			Accessions:       r.Accessions,
			Decoy:            r.Decoy,
			NrPeptides:       r.NrPeptides,
			NrUniquePeptides: r.NrUniquePeptides,
			NrPSMs:           r.NrPSMs,
			NrSpectra:        r.NrSpectra,
		}
		for _, d := range r.Descriptions {
			if d != "" {
				p.Descriptions = r.Descriptions
				break
			}
		}
		for _, pep := range r.Peptides {
			p.Peptides = append(p.Peptides, peptide{
				ID:       pep.StringID,
				Sequence: pep.Sequence,
				NrPSMs:   pep.NrPSMs,
			})
		}
		for _, s := range r.Subsets {
			p.Subsets = append(p.Subsets, subset{
				Accessions: s.Accessions,
				Score:      scorePtr(s.Score),
			})
		}
		prots[i] = p
	}
	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(prots)
	if err != nil {
		return err
	}
	if _, err = w.Write(data); err != nil {
		return err
	}
	_, err = w.WriteString("\n")
	return err
}
