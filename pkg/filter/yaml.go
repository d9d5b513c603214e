package filter

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the layout of a filters YAML file:
//
//	filters:
//	  - field: charge
//	    comparator: GEQ
//	    value: "2"
//	  - field: protein_accessions
//	    comparator: REG
//	    value: ^DECOY_
//	    negate: true
type File struct {
	Filters []Spec `yaml:"filters"`
}

// Spec describes one filter.
type Spec struct {
	Field      string `yaml:"field"`
	Comparator string `yaml:"comparator"`
	Value      string `yaml:"value"`
	Negate     bool   `yaml:"negate"`
}

// ParseYAML reads filters from YAML data.
func ParseYAML(data []byte) ([]*Filter, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("cannot decode filters: %w", err)
	}
	res := make([]*Filter, 0, len(file.Filters))
	for i, s := range file.Filters {
		f, err := New(s.Field, Comparator(s.Comparator), s.Value, s.Negate)
		if err != nil {
			return nil, fmt.Errorf("filter #%d: %w", i+1, err)
		}
		res = append(res, f)
	}
	return res, nil
}
