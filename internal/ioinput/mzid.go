package ioinput

import (
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gnames/gnlib"
	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/score"
	"golang.org/x/net/html/charset"
)

// accessions of cvParams used by the reader
const (
	cvSpectrumTitle      = "MS:1000796"
	cvProteinDescription = "MS:1001088"
)

// retention time cvParams in the order of preference
var cvRetentionTime = []string{
	"MS:1000016", // scan start time
	"MS:1000894", // retention time
	"MS:1000826", // elution time
	"MS:1001114", // retention time (obsolete)
}

type mzidContent struct {
	XMLName         xml.Name          `xml:"MzIdentML"`
	DBSequences     []mzidDBSequence  `xml:"SequenceCollection>DBSequence"`
	Peptides        []mzidPeptide     `xml:"SequenceCollection>Peptide"`
	PeptideEvidence []mzidPepEvidence `xml:"SequenceCollection>PeptideEvidence"`
	Lists           []mzidSIList      `xml:"DataCollection>AnalysisData>SpectrumIdentificationList"`
}

type mzidDBSequence struct {
	ID          string        `xml:"id,attr"`
	Accession   string        `xml:"accession,attr"`
	SearchDBRef string        `xml:"searchDatabase_ref,attr"`
	Seq         string        `xml:"Seq"`
	CvParams    []mzidCvParam `xml:"cvParam"`
}

type mzidPeptide struct {
	ID            string         `xml:"id,attr"`
	Sequence      string         `xml:"PeptideSequence"`
	Modifications []mzidModifier `xml:"Modification"`
}

type mzidModifier struct {
	Location  int           `xml:"location,attr"`
	MassDelta float64       `xml:"monoisotopicMassDelta,attr"`
	Residues  string        `xml:"residues,attr"`
	CvParams  []mzidCvParam `xml:"cvParam"`
}

type mzidPepEvidence struct {
	ID         string `xml:"id,attr"`
	DBSequence string `xml:"dBSequence_ref,attr"`
	Peptide    string `xml:"peptide_ref,attr"`
	Start      int    `xml:"start,attr"`
	End        int    `xml:"end,attr"`
	IsDecoy    bool   `xml:"isDecoy,attr"`
}

type mzidSIList struct {
	ID      string         `xml:"id,attr"`
	Results []mzidSIResult `xml:"SpectrumIdentificationResult"`
}

type mzidSIResult struct {
	SpectrumID string        `xml:"spectrumID,attr"`
	Items      []mzidSIItem  `xml:"SpectrumIdentificationItem"`
	CvParams   []mzidCvParam `xml:"cvParam"`
}

type mzidSIItem struct {
	Charge       int           `xml:"chargeState,attr"`
	ExperimentMZ float64       `xml:"experimentalMassToCharge,attr"`
	CalculatedMZ float64       `xml:"calculatedMassToCharge,attr"`
	PeptideRef   string        `xml:"peptide_ref,attr"`
	EvidenceRefs []mzidPERef   `xml:"PeptideEvidenceRef"`
	CvParams     []mzidCvParam `xml:"cvParam"`
}

type mzidPERef struct {
	Ref string `xml:"peptideEvidence_ref,attr"`
}

type mzidCvParam struct {
	Accession     string `xml:"accession,attr"`
	Name          string `xml:"name,attr"`
	Value         string `xml:"value,attr"`
	UnitAccession string `xml:"unitAccession,attr"`
}

func parseMzIdentML(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer f.Close()

	var content mzidContent
	d := xml.NewDecoder(f)
	d.CharsetReader = charset.NewReaderLabel
	if err = d.Decode(&content); err != nil {
		line, _ := d.InputPos()
		return nil, ParseError(path, line, err)
	}

	res, err := content.records()
	if err != nil {
		return nil, ParseError(path, 0, err)
	}
	return res, nil
}

func (c *mzidContent) records() ([]Record, error) {
	dbSeqs := make(map[string]*mzidDBSequence, len(c.DBSequences))
	for i := range c.DBSequences {
		dbSeqs[c.DBSequences[i].ID] = &c.DBSequences[i]
	}
	peps := make(map[string]*mzidPeptide, len(c.Peptides))
	for i := range c.Peptides {
		peps[c.Peptides[i].ID] = &c.Peptides[i]
	}
	evidence := make(map[string]*mzidPepEvidence, len(c.PeptideEvidence))
	for i := range c.PeptideEvidence {
		evidence[c.PeptideEvidence[i].ID] = &c.PeptideEvidence[i]
	}

	var res []Record
	for _, list := range c.Lists {
		for _, sir := range list.Results {
			title := gnlib.FixUtf8(cvValue(sir.CvParams, cvSpectrumTitle))
			rt, err := retentionTime(sir.CvParams)
			if err != nil {
				return nil, fmt.Errorf("spectrum %s: %w", sir.SpectrumID, err)
			}
			for _, sii := range sir.Items {
				pep, ok := peps[sii.PeptideRef]
				if !ok {
					return nil, fmt.Errorf("unknown peptide %q", sii.PeptideRef)
				}
				rec := Record{
					PSM: intermediate.PSM{
						SourceID:        gnlib.FixUtf8(sir.SpectrumID),
						SpectrumTitle:   title,
						Sequence:        strings.ToUpper(pep.Sequence),
						Charge:          sii.Charge,
						MassToCharge:    sii.ExperimentMZ,
						DeltaMass:       (sii.ExperimentMZ - sii.CalculatedMZ) * float64(sii.Charge),
						RetentionTime:   rt,
						MissedCleavages: -1,
						Modifications:   modifications(pep.Modifications),
						Scores:          scores(sii.CvParams),
						Protocol:        list.ID,
					},
				}
				for _, ref := range sii.EvidenceRefs {
					pe, ok := evidence[ref.Ref]
					if !ok {
						return nil, fmt.Errorf("unknown peptide evidence %q", ref.Ref)
					}
					rec.PSM.Decoy = rec.PSM.Decoy || pe.IsDecoy
					dbs, ok := dbSeqs[pe.DBSequence]
					if !ok {
						return nil, fmt.Errorf("unknown DB sequence %q", pe.DBSequence)
					}
					rec.Evidence = append(rec.Evidence, Evidence{
						Accession:   gnlib.FixUtf8(dbs.Accession),
						Description: gnlib.FixUtf8(cvValue(dbs.CvParams, cvProteinDescription)),
						Sequence:    strings.TrimSpace(dbs.Seq),
						DBRef:       dbs.SearchDBRef,
						Start:       pe.Start,
						Stop:        pe.End,
					})
				}
				res = append(res, rec)
			}
		}
	}
	return res, nil
}

func cvValue(params []mzidCvParam, accession string) string {
	for _, cv := range params {
		if cv.Accession == accession {
			return cv.Value
		}
	}
	return ""
}

// retentionTime returns the time in seconds from the most preferred
// cvParam, or nil.
func retentionTime(params []mzidCvParam) (*float64, error) {
	prio := len(cvRetentionTime)
	var res *float64
	for _, cv := range params {
		for i, acc := range cvRetentionTime {
			if cv.Accession != acc || i >= prio {
				continue
			}
			rt, err := strconv.ParseFloat(cv.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("retention time %q: %w", cv.Value, err)
			}
			// minutes
			if cv.UnitAccession == "UO:0000031" || cv.UnitAccession == "MS:1000038" {
				rt *= 60
			}
			prio = i
			res = &rt
		}
	}
	return res, nil
}

// scores takes every numeric cvParam of an identification item as a
// score.
func scores(params []mzidCvParam) map[string]float64 {
	res := make(map[string]float64)
	for _, cv := range params {
		if cv.Name == "" {
			continue
		}
		v, err := strconv.ParseFloat(cv.Value, 64)
		if err != nil || math.IsNaN(v) {
			continue
		}
		res[score.Normalize(cv.Name)] = v
	}
	return res
}

func modifications(mods []mzidModifier) []intermediate.Modification {
	if len(mods) == 0 {
		return nil
	}
	res := make([]intermediate.Modification, len(mods))
	for i, m := range mods {
		res[i] = intermediate.Modification{
			Position: m.Location,
			Mass:     m.MassDelta,
			Residue:  m.Residues,
		}
		if len(m.CvParams) > 0 {
			res[i].Description = m.CvParams[0].Name
		}
	}
	return res
}
