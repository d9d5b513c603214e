package ioinput

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/gnlib"
	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/score"
)

// tsvColumns are the columns a TSV file can have. Columns sequence,
// accessions, charge and mz are required.
var tsvColumns = []string{
	"source_id", "spectrum_title", "sequence", "accessions", "charge",
	"mz", "delta_mass", "retention_time", "missed_cleavages",
	"modifications", "decoy", "scores", "descriptions",
}

var tsvRequired = []string{"sequence", "accessions", "charge", "mz"}

func parseTSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer f.Close()
	return readTSV(path, f)
}

func readTSV(path string, r io.Reader) ([]Record, error) {
	rd := csv.NewReader(r)
	rd.Comma = '\t'
	rd.Comment = '#'
	rd.LazyQuotes = true
	rd.ReuseRecord = true

	header, err := rd.Read()
	if err != nil {
		return nil, ParseError(path, 1, fmt.Errorf("cannot read header: %w", err))
	}
	cols, err := tsvHeader(header)
	if err != nil {
		return nil, ParseError(path, 1, err)
	}

	var res []Record
	for {
		row, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			var line int
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, ParseError(path, line, err)
		}
		line, _ := rd.FieldPos(0)
		rec, err := tsvRecord(cols, row)
		if err != nil {
			return nil, ParseError(path, line, err)
		}
		res = append(res, rec)
	}
	return res, nil
}

func tsvHeader(header []string) (map[string]int, error) {
	res := make(map[string]int)
	for i, v := range header {
		v = strings.ToLower(strings.TrimSpace(v))
		if !slices.Contains(tsvColumns, v) {
			slog.Warn("Unknown TSV column is ignored", "column", v)
			continue
		}
		res[v] = i
	}
	for _, v := range tsvRequired {
		if _, ok := res[v]; !ok {
			return nil, fmt.Errorf("column %q is missing", v)
		}
	}
	return res, nil
}

func tsvRecord(cols map[string]int, row []string) (Record, error) {
	var res Record
	get := func(name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	psm := intermediate.PSM{
		SourceID:        gnlib.FixUtf8(get("source_id")),
		SpectrumTitle:   gnlib.FixUtf8(get("spectrum_title")),
		Sequence:        strings.ToUpper(get("sequence")),
		MissedCleavages: -1,
		Scores:          make(map[string]float64),
	}
	if psm.Sequence == "" {
		return res, errors.New("empty sequence")
	}

	var err error
	if psm.Charge, err = strconv.Atoi(get("charge")); err != nil {
		return res, fmt.Errorf("charge: %w", err)
	}
	if psm.MassToCharge, err = strconv.ParseFloat(get("mz"), 64); err != nil {
		return res, fmt.Errorf("mz: %w", err)
	}
	if s := get("delta_mass"); s != "" {
		if psm.DeltaMass, err = strconv.ParseFloat(s, 64); err != nil {
			return res, fmt.Errorf("delta_mass: %w", err)
		}
	}
	if s := get("retention_time"); s != "" {
		rt, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return res, fmt.Errorf("retention_time: %w", err)
		}
		psm.RetentionTime = &rt
	}
	if s := get("missed_cleavages"); s != "" {
		if psm.MissedCleavages, err = strconv.Atoi(s); err != nil {
			return res, fmt.Errorf("missed_cleavages: %w", err)
		}
	}
	if s := get("decoy"); s != "" {
		psm.Decoy = parseBool(s)
	}
	if psm.Modifications, err = parseModifications(get("modifications")); err != nil {
		return res, err
	}
	if err = parseScores(get("scores"), psm.Scores); err != nil {
		return res, err
	}
	res.PSM = psm

	descr := parseDescriptions(get("descriptions"))
	for _, acc := range strings.Split(get("accessions"), ";") {
		acc = gnlib.FixUtf8(strings.TrimSpace(acc))
		if acc == "" {
			continue
		}
		res.Evidence = append(res.Evidence, Evidence{
			Accession:   acc,
			Description: descr[acc],
		})
	}
	return res, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "t", "y":
		return true
	}
	return false
}

// parseModifications reads `pos:mass:residue[:description]` items
// joined by `|`.
func parseModifications(s string) ([]intermediate.Modification, error) {
	if s == "" {
		return nil, nil
	}
	var res []intermediate.Modification
	for _, item := range strings.Split(s, "|") {
		parts := strings.SplitN(strings.TrimSpace(item), ":", 4)
		if len(parts) < 3 {
			return nil, fmt.Errorf("modification %q: need pos:mass:residue", item)
		}
		pos, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("modification %q: %w", item, err)
		}
		mass, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("modification %q: %w", item, err)
		}
		mod := intermediate.Modification{
			Position: pos,
			Mass:     mass,
			Residue:  parts[2],
		}
		if len(parts) == 4 {
			mod.Description = gnlib.FixUtf8(parts[3])
		}
		res = append(res, mod)
	}
	return res, nil
}

// parseScores reads `name=value` items joined by `;`.
func parseScores(s string, scores map[string]float64) error {
	if s == "" {
		return nil
	}
	for _, item := range strings.Split(s, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, val, ok := strings.Cut(item, "=")
		if !ok {
			return fmt.Errorf("score %q: need name=value", item)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return fmt.Errorf("score %q: %w", item, err)
		}
		scores[score.Normalize(name)] = f
	}
	return nil
}

// parseDescriptions reads `accession=text` items joined by `|`.
func parseDescriptions(s string) map[string]string {
	res := make(map[string]string)
	if s == "" {
		return res
	}
	for _, item := range strings.Split(s, "|") {
		acc, descr, ok := strings.Cut(item, "=")
		if !ok {
			continue
		}
		res[gnlib.FixUtf8(strings.TrimSpace(acc))] = gnlib.FixUtf8(strings.TrimSpace(descr))
	}
	return res
}
