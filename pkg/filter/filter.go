// Package filter decides which PSMs, PSM sets, peptides and proteins take
// part in inference. A filter compares one field of an item with a value;
// a list of filters is satisfied if all filters that apply to the item
// are satisfied.
package filter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gnames/gnpia/pkg/report"
)

// Filter compares one field of an item with a value.
type Filter struct {
	Name       string
	Comparator Comparator
	Value      string
	Negate     bool

	field  *field
	number float64
	flag   bool
	re     *regexp.Regexp
}

// New creates a filter for a registered field.
func New(name string, cmp Comparator, value string, negate bool) (*Filter, error) {
	f, ok := lookupField(name)
	if !ok {
		return nil, fmt.Errorf("unknown filter %q", name)
	}
	c, err := parseComparator(string(cmp), f.vtype)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", name, err)
	}

	res := &Filter{
		Name:       name,
		Comparator: c,
		Value:      value,
		Negate:     negate,
		field:      f,
	}
	switch f.vtype {
	case NumberValue:
		res.number, err = strconv.ParseFloat(value, 64)
	case BoolValue:
		res.flag, err = strconv.ParseBool(value)
	}
	if err != nil {
		return nil, fmt.Errorf("filter %q: bad value %q: %w", name, value, err)
	}
	if c == Regex || c == RegexOnly {
		if res.re, err = regexp.Compile(value); err != nil {
			return nil, fmt.Errorf("filter %q: %w", name, err)
		}
	}
	return res, nil
}

// Parse reads a filter given as "[!]name COMPARATOR value", for example
// "charge GEQ 2" or "!protein_accessions REG ^DECOY_". The value is the
// rest of the line after the comparator.
func Parse(s string) (*Filter, error) {
	s = strings.TrimSpace(s)
	negate := strings.HasPrefix(s, "!")
	s = strings.TrimSpace(strings.TrimPrefix(s, "!"))

	name, rest, ok := strings.Cut(s, " ")
	if !ok {
		return nil, fmt.Errorf("cannot parse filter %q", s)
	}
	rest = strings.TrimSpace(rest)
	cmp, value, ok := strings.Cut(rest, " ")
	if !ok {
		return nil, fmt.Errorf("filter %q has no value", s)
	}
	return New(name, Comparator(cmp), strings.TrimSpace(value), negate)
}

// ParseAll parses every string into a filter.
func ParseAll(ss []string) ([]*Filter, error) {
	res := make([]*Filter, 0, len(ss))
	for _, s := range ss {
		f, err := Parse(s)
		if err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return res, nil
}

// Level returns the level of items the filter applies to.
func (f *Filter) Level() Level {
	return f.field.level
}

func (f *Filter) String() string {
	var neg string
	if f.Negate {
		neg = "!"
	}
	return fmt.Sprintf("%s%s %s %s", neg, f.Name, f.Comparator, f.Value)
}

// Satisfies checks the item. Items are *report.PSM, *report.PSMSet,
// *report.Peptide and *report.Protein; filters of another level and
// unknown items always pass. For a PSM set and a fileID other than 0,
// the set passes if any of its PSMs from that file passes.
func (f *Filter) Satisfies(item any, fileID int64) bool {
	var v any
	switch it := item.(type) {
	case *report.PSM:
		if f.field.psm == nil {
			return true
		}
		v = f.field.psm(it)
	case *report.PSMSet:
		if f.field.set == nil {
			return true
		}
		if fileID != 0 {
			return f.satisfiesFile(it, fileID)
		}
		v = f.field.set(it)
	case *report.Peptide:
		if f.field.peptide == nil {
			return true
		}
		v = f.field.peptide(it)
	case *report.Protein:
		if f.field.protein == nil {
			return true
		}
		v = f.field.protein(it)
	default:
		return true
	}
	return f.compare(v) != f.Negate
}

func (f *Filter) satisfiesFile(s *report.PSMSet, fileID int64) bool {
	for _, p := range s.PSMs {
		if p.FileID == fileID && f.Satisfies(p, fileID) {
			return true
		}
	}
	return false
}

func (f *Filter) compare(v any) bool {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) {
			return false
		}
		return compareNumber(f.Comparator, val, f.number)
	case string:
		return compareString(f.Comparator, val, f.Value, f.re)
	case []string:
		return compareList(f.Comparator, val, f.Value, f.re)
	case bool:
		return val == f.flag
	}
	return false
}

// SatisfiesAll is true if the item passes every filter.
func SatisfiesAll(filters []*Filter, item any, fileID int64) bool {
	for _, f := range filters {
		if !f.Satisfies(item, fileID) {
			return false
		}
	}
	return true
}

// ByLevel returns filters of the given level.
func ByLevel(filters []*Filter, l Level) []*Filter {
	var res []*Filter
	for _, f := range filters {
		if f.Level() == l {
			res = append(res, f)
		}
	}
	return res
}
