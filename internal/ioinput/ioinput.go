// Package ioinput reads PSM result files of search engines and inserts
// their identifications into the intermediate store.
//
// Files are parsed concurrently, but their records are inserted in the
// order of the input paths, so entity ids do not depend on which file
// was parsed first. A file that cannot be read or parsed is reported and
// skipped, other files are still inserted.
package ioinput

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gnames/gnpia/pkg/anomaly"
	"github.com/gnames/gnpia/pkg/intermediate"
	"golang.org/x/sync/errgroup"
)

// Format of an input file.
type Format string

const (
	TSV       Format = "tsv"
	MzIdentML Format = "mzid"
)

// Evidence connects a PSM to a protein accession.
type Evidence struct {
	Accession   string
	Description string
	// Sequence of the protein, if the file has it.
	Sequence string
	// DBRef is the search database the accession comes from.
	DBRef string
	// Start and Stop are 1-based positions of the peptide in the protein,
	// 0 if unknown.
	Start int
	Stop  int
}

// Record is one identification of a file. PSM ids, file id, peptide id
// and accession ids are assigned on insertion.
type Record struct {
	PSM      intermediate.PSM
	Evidence []Evidence
}

// File is a parsed input file.
type File struct {
	Path    string
	Format  Format
	Records []Record
}

// Result describes how a file was loaded.
type Result struct {
	Path   string
	FileID int64
	NrPSMs int
	Err    error
}

// DetectFormat finds the format of a file by its extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".tsv", ".txt":
		return TSV, nil
	case ".mzid", ".mzidentml":
		return MzIdentML, nil
	}
	return "", UnknownFormatError(path)
}

// Parse reads a file of any supported format.
func Parse(path string) (*File, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	var recs []Record
	switch format {
	case TSV:
		recs, err = parseTSV(path)
	default:
		recs, err = parseMzIdentML(path)
	}
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Format: format, Records: recs}, nil
}

// Loader parses files and inserts them into a store.
type Loader struct {
	Store     *intermediate.Store
	Anomalies *anomaly.Collector
	Jobs      int

	// OnFile is called after every parsed file, if set. It must be safe
	// for concurrent use.
	OnFile func()
}

// Load parses all files and inserts them in the given order. It returns
// one Result per path. Only cancellation of the context is returned as
// an error, failures of single files are in their results.
func (l *Loader) Load(ctx context.Context, paths []string) ([]Result, error) {
	res := make([]Result, len(paths))
	files := make([]*File, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.Jobs, 1))
	for i, path := range paths {
		res[i].Path = path
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			f, err := Parse(path)
			if err != nil {
				slog.Error("Cannot parse input file", "path", path, "error", err)
				res[i].Err = err
			}
			files[i] = f
			if l.OnFile != nil {
				l.OnFile()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, f := range files {
		if f == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res[i].FileID, res[i].NrPSMs = l.insert(f)
		slog.Info("Input file loaded",
			"path", f.Path, "format", f.Format, "psms", res[i].NrPSMs)
	}
	return res, nil
}

func (l *Loader) insert(f *File) (int64, int) {
	s := l.Store
	inFile := s.AddInputFile(filepath.Base(f.Path), f.Path, string(f.Format))

	var count int
	for _, rec := range f.Records {
		if len(rec.Evidence) == 0 {
			l.Anomalies.Add(anomaly.BadRecord,
				"PSM of %s in %s has no accessions", rec.PSM.Sequence, f.Path)
			continue
		}

		psm := rec.PSM
		psm.FileID = inFile.ID
		psm.Modifications = slices.Clone(rec.PSM.Modifications)
		psm.AccessionIDs = nil
		pep := s.InsertPeptide(psm.Sequence)
		psm.PeptideID = pep.ID

		for _, ev := range rec.Evidence {
			acc := s.InsertAccession(ev.Accession, ev.Sequence)
			err := s.AddAccessionFile(acc.ID, inFile.ID, ev.Description, ev.DBRef)
			if err == nil {
				err = s.AddAccessionPeptideConnection(acc.ID, pep.ID)
			}
			if err == nil && ev.Start > 0 {
				err = s.AddOccurrence(pep.ID, intermediate.Occurrence{
					AccessionID: acc.ID,
					Start:       ev.Start,
					Stop:        ev.Stop,
				})
			}
			if err != nil {
				l.Anomalies.Add(anomaly.BadRecord,
					"accession %s in %s: %s", ev.Accession, f.Path, err)
				continue
			}
			if !slices.Contains(psm.AccessionIDs, acc.ID) {
				psm.AccessionIDs = append(psm.AccessionIDs, acc.ID)
			}
		}

		if _, err := s.InsertPSM(&psm); err != nil {
			l.Anomalies.Add(anomaly.BadRecord,
				"PSM of %s in %s: %s", psm.Sequence, f.Path, err)
			continue
		}
		count++
	}
	return inFile.ID, count
}
