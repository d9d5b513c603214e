package filter

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Comparator compares the value of an item with the filter value.
type Comparator string

const (
	LessThan     Comparator = "LT"
	LessEqual    Comparator = "LEQ"
	Equal        Comparator = "EQ"
	GreaterEqual Comparator = "GEQ"
	GreaterThan  Comparator = "GT"
	// Contains is a substring test for strings and a membership test for
	// lists.
	Contains Comparator = "CON"
	// ContainsOnly is true if every list element equals the value.
	ContainsOnly Comparator = "COO"
	// Regex is true if the string, or any list element, matches.
	Regex Comparator = "REG"
	// RegexOnly is true if every list element matches.
	RegexOnly Comparator = "RXO"
)

// ValueType of a filter field.
type ValueType int

const (
	NumberValue ValueType = iota
	StringValue
	ListValue
	BoolValue
)

func (v ValueType) String() string {
	switch v {
	case NumberValue:
		return "number"
	case StringValue:
		return "string"
	case ListValue:
		return "list"
	case BoolValue:
		return "bool"
	}
	return "unknown"
}

var comparators = map[ValueType][]Comparator{
	NumberValue: {LessThan, LessEqual, Equal, GreaterEqual, GreaterThan},
	StringValue: {Equal, Contains, Regex},
	ListValue:   {Contains, ContainsOnly, Regex, RegexOnly},
	BoolValue:   {Equal},
}

// Comparators returns the comparators allowed for a value type.
func Comparators(v ValueType) []Comparator {
	return comparators[v]
}

func parseComparator(s string, v ValueType) (Comparator, error) {
	c := Comparator(strings.ToUpper(s))
	if !slices.Contains(comparators[v], c) {
		return "", fmt.Errorf("comparator %q does not apply to %s values", s, v)
	}
	return c, nil
}

func compareNumber(c Comparator, v, ref float64) bool {
	switch c {
	case LessThan:
		return v < ref
	case LessEqual:
		return v <= ref
	case Equal:
		return v == ref
	case GreaterEqual:
		return v >= ref
	case GreaterThan:
		return v > ref
	}
	return false
}

func compareString(c Comparator, v, ref string, re *regexp.Regexp) bool {
	switch c {
	case Equal:
		return v == ref
	case Contains:
		return strings.Contains(v, ref)
	case Regex:
		return re.MatchString(v)
	}
	return false
}

func compareList(c Comparator, vs []string, ref string, re *regexp.Regexp) bool {
	switch c {
	case Contains:
		return slices.Contains(vs, ref)
	case ContainsOnly:
		if len(vs) == 0 {
			return false
		}
		for _, v := range vs {
			if v != ref {
				return false
			}
		}
		return true
	case Regex:
		return slices.ContainsFunc(vs, re.MatchString)
	case RegexOnly:
		if len(vs) == 0 {
			return false
		}
		for _, v := range vs {
			if !re.MatchString(v) {
				return false
			}
		}
		return true
	}
	return false
}
