package intermediate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KeySettings is a bit mask of PSM fields that build an identification
// key. PSMs with equal keys are the same identification.
type KeySettings uint16

const (
	KeyCharge KeySettings = 1 << iota
	KeyFileID
	KeyMassToCharge
	KeyModifications
	KeyRetentionTime
	KeySequence
	KeySourceID
	KeySpectrumTitle
)

// keyFields keeps the order of fields in a key.
var keyFields = []struct {
	key  KeySettings
	name string
}{
	{KeyCharge, "charge"},
	{KeyFileID, "file_id"},
	{KeyMassToCharge, "mass_to_charge"},
	{KeyModifications, "modifications"},
	{KeyRetentionTime, "retention_time"},
	{KeySequence, "sequence"},
	{KeySourceID, "source_id"},
	{KeySpectrumTitle, "spectrum_title"},
}

// DefaultKeySettings are used when nothing else is configured.
func DefaultKeySettings() KeySettings {
	return KeyCharge | KeyMassToCharge | KeyModifications |
		KeyRetentionTime | KeySequence
}

// ParseKeySettings converts field names to KeySettings.
func ParseKeySettings(names []string) (KeySettings, error) {
	var res KeySettings
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		var found bool
		for _, f := range keyFields {
			if f.name == n {
				res |= f.key
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown PSM key field %q", n)
		}
	}
	return res, nil
}

func (k KeySettings) Has(s KeySettings) bool {
	return k&s == s
}

// NoRedundant drops fields that only restate the spectrum when its
// source id is known.
func (k KeySettings) NoRedundant() KeySettings {
	if k.Has(KeySourceID) {
		return k &^ (KeyMassToCharge | KeyRetentionTime | KeySpectrumTitle)
	}
	return k
}

// Names returns field names in key order.
func (k KeySettings) Names() []string {
	var res []string
	for _, f := range keyFields {
		if k.Has(f.key) {
			res = append(res, f.name)
		}
	}
	return res
}

func (k KeySettings) String() string {
	return strings.Join(k.Names(), ",")
}

// IdentificationKey joins the selected fields of the PSM with ':'.
// Fields without value are skipped.
func (p *PSM) IdentificationKey(ks KeySettings) string {
	var parts []string
	for _, f := range keyFields {
		if !ks.Has(f.key) {
			continue
		}
		var v string
		switch f.key {
		case KeyCharge:
			v = strconv.Itoa(p.Charge)
		case KeyFileID:
			v = strconv.FormatInt(p.FileID, 10)
		case KeyMassToCharge:
			v = strconv.FormatFloat(round(p.MassToCharge, 4), 'f', -1, 64)
		case KeyModifications:
			v = p.modificationsString()
		case KeyRetentionTime:
			if p.RetentionTime != nil {
				v = strconv.FormatInt(int64(math.Round(*p.RetentionTime)), 10)
			}
		case KeySequence:
			v = p.Sequence
		case KeySourceID:
			v = p.SourceID
		case KeySpectrumTitle:
			v = p.SpectrumTitle
		}
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ":")
}

// SpectrumKey identifies the spectrum of the PSM regardless of the
// peptide assigned to it.
func (p *PSM) SpectrumKey(ks KeySettings) string {
	return p.IdentificationKey(ks &^ (KeySequence | KeyModifications))
}

// PeptideStringID identifies the peptide of the PSM, with or without its
// modifications.
func (p *PSM) PeptideStringID(considerModifications bool) string {
	if !considerModifications || len(p.Modifications) == 0 {
		return p.Sequence
	}
	return p.Sequence + p.modificationsString()
}

func (p *PSM) modificationsString() string {
	var sb strings.Builder
	for _, m := range p.Modifications {
		fmt.Fprintf(&sb, "(%d;%s)", m.Position,
			strconv.FormatFloat(round(m.Mass, 4), 'f', -1, 64))
	}
	return sb.String()
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
