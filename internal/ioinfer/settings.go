package ioinfer

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/gnames/gnpia/internal/ioexport"
	"github.com/gnames/gnpia/internal/iofs"
	gnpia "github.com/gnames/gnpia/pkg"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/gnames/gnpia/pkg/filter"
	"github.com/gnames/gnpia/pkg/inference"
	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/score"
	"github.com/gnames/gnpia/pkg/scoring"
)

// settings are inference settings checked before any data is read.
type settings struct {
	compiledFile  string
	method        inference.Method
	scoring       scoring.Method
	score         string
	psmForScoring string
	consMods      bool
	keys          intermediate.KeySettings
	createSets    bool
	filters       []*filter.Filter
	format        ioexport.Format
}

func newSettings(cfg *config.Config) (settings, error) {
	inf := cfg.Inference
	res := settings{
		compiledFile:  inf.CompiledFile,
		method:        inference.Method(inf.Method),
		scoring:       scoring.Method(inf.Scoring),
		score:         score.Normalize(inf.Score),
		psmForScoring: inf.PSMForScoring,
		consMods:      inf.ConsiderModifications,
		createSets:    inf.CreatePSMSets,
	}
	if res.compiledFile == "" {
		return res, NoCompiledFileError()
	}
	if !slices.Contains(inference.Methods, res.method) {
		return res, inference.UnknownMethodError(inf.Method)
	}
	if !slices.Contains(scoring.Methods, res.scoring) {
		return res, UnknownScoringError(inf.Scoring)
	}
	switch scoring.PSMForScoring(res.psmForScoring) {
	case scoring.Best, scoring.All:
	default:
		err := fmt.Errorf("unknown value %q", res.psmForScoring)
		return res, SettingsError("psm_for_scoring", err)
	}

	var err error
	if res.keys, err = intermediate.ParseKeySettings(inf.PSMSetSettings); err != nil {
		return res, SettingsError("psm_set_settings", err)
	}
	if res.keys == 0 {
		res.keys = intermediate.DefaultKeySettings()
	}

	if res.filters, err = filter.ParseAll(inf.Filters); err != nil {
		return res, FilterError("command line", err)
	}
	if inf.FiltersFile != "" {
		data, err := iofs.ReadFile(inf.FiltersFile)
		if err != nil {
			return res, err
		}
		fs, err := filter.ParseYAML(data)
		if err != nil {
			return res, FilterError(inf.FiltersFile, err)
		}
		res.filters = append(res.filters, fs...)
	}

	if res.format, err = ioexport.ParseFormat(inf.OutputFormat); err != nil {
		return res, err
	}
	return res, nil
}

// filterStrings returns filters in command line notation.
func (s settings) filterStrings() []string {
	res := make([]string, len(s.filters))
	for i, f := range s.filters {
		res[i] = f.String()
	}
	return res
}

// cacheParts lists everything that changes the result of an inference.
func (s settings) cacheParts() []string {
	res := []string{
		gnpia.Version,
		string(s.method),
		string(s.scoring),
		s.score,
		s.psmForScoring,
		strconv.FormatBool(s.consMods),
		s.keys.String(),
		strconv.FormatBool(s.createSets),
	}
	return append(res, s.filterStrings()...)
}
