package inference

import "slices"

// New creates the engine of the named method. Every method needs a
// scoring, missing scoring and unknown methods are errors.
func New(method string, s Settings) (Engine, error) {
	m := Method(method)
	if !slices.Contains(Methods, m) {
		return nil, UnknownMethodError(method)
	}
	if s.Scoring == nil {
		return nil, NoScoringError(m)
	}

	switch m {
	case OccamsRazor:
		return NewOccam(s), nil
	case SpectrumExtractor:
		return NewExtractor(s), nil
	default:
		return NewAll(s), nil
	}
}
