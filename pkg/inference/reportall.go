package inference

import (
	"context"

	"github.com/gnames/gnpia/pkg/filter"
	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/report"
)

// All reports every group that has accessions and qualifying peptides.
// Descendant groups that are reported as well become its subsets.
type All struct {
	*base
}

// NewAll creates Report All inference.
func NewAll(s Settings) *All {
	return &All{base: newBase(s)}
}

func (a *All) Method() Method {
	return ReportAll
}

// Infer reports all groups. With active filters groups of a tree might
// end up with the same peptides, such groups are reported once.
func (a *All) Infer(ctx context.Context, d Data) ([]*report.Protein, error) {
	a.setProgress(0)
	peps := a.filteredPeptides(d, true)

	type treeSignature struct {
		tree int64
		sig  string
	}
	var ids []int64
	sameSets := make(map[int64][]int64)
	first := make(map[treeSignature]int64)
	for _, gid := range d.Groups.IDs() {
		g := d.Groups[gid]
		if len(g.Accessions) == 0 {
			continue
		}
		gPeps := groupPeptides(d.Groups, gid, peps)
		if len(gPeps) == 0 {
			continue
		}
		if len(a.Filters) > 0 {
			keys := make(keySet, len(gPeps))
			for _, pep := range gPeps {
				keys[pep.StringID] = struct{}{}
			}
			ts := treeSignature{tree: g.TreeID, sig: keys.signature()}
			if id, ok := first[ts]; ok {
				sameSets[id] = append(sameSets[id], gid)
				continue
			}
			first[ts] = gid
		}
		ids = append(ids, gid)
	}

	reported := intermediate.NewIDSet(ids...)
	subGroups := make(map[int64][]int64)
	for _, gid := range ids {
		for _, sub := range d.Groups.Descendants(gid).Sorted() {
			if reported.Has(sub) {
				subGroups[gid] = append(subGroups[gid], sub)
			}
		}
	}

	protFilters := filter.ByLevel(a.Filters, filter.ProteinLevel)
	built := make(map[int64]*report.Protein)
	var res []*report.Protein
	for i, gid := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := a.createProtein(d, gid, peps, sameSets, subGroups, built)
		if filter.SatisfiesAll(protFilters, p, 0) {
			res = append(res, p)
		}
		a.setProgress(float64(i+1) / float64(len(ids)) * 100)
	}

	report.RankProteins(res)
	a.setProgress(Done)
	return res, nil
}
