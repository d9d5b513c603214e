package inference

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/gnames/gnpia/pkg/filter"
	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/gnames/gnpia/pkg/report"
	"golang.org/x/sync/errgroup"
)

// Occam reports the smallest set of proteins that explains all
// peptides of every tree. Proteins whose peptides are a subset of a
// reported protein are attached to it as subsets.
type Occam struct {
	*base
}

// NewOccam creates Occam's Razor inference.
func NewOccam(s Settings) *Occam {
	return &Occam{base: newBase(s)}
}

func (o *Occam) Method() Method {
	return OccamsRazor
}

// Infer processes trees concurrently, every tree is handled by one
// worker.
func (o *Occam) Infer(ctx context.Context, d Data) ([]*report.Protein, error) {
	o.setProgress(0)
	peps := o.filteredPeptides(d, true)
	trees := d.Groups.Trees()
	treeIDs := make([]int64, 0, len(trees))
	for id := range trees {
		treeIDs = append(treeIDs, id)
	}
	slices.Sort(treeIDs)

	var (
		mu       sync.Mutex
		res      []*report.Protein
		finished int
	)

	chIn := make(chan intermediate.GroupMap)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, id := range treeIDs {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- trees[id]:
			}
		}
		return nil
	})

	for range o.Jobs {
		g.Go(func() error {
			for tree := range chIn {
				select {
				case <-gCtx.Done():
					for range chIn {
					}
					return gCtx.Err()
				default:
				}

				prots := o.inferTree(d, tree, peps)

				mu.Lock()
				res = append(res, prots...)
				finished++
				o.setProgress(float64(finished) / float64(len(treeIDs)) * 100)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return nil, InferError(OccamsRazor, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.RankProteins(res)
	o.setProgress(Done)
	return res, nil
}

type occamCandidate struct {
	protein *report.Protein
	keys    keySet

	subs        []int
	intersected int
	isSub       bool
}

// inferTree runs the minimal cover on one tree.
func (o *Occam) inferTree(
	d Data,
	tree intermediate.GroupMap,
	peps map[int64][]*report.Peptide,
) []*report.Protein {
	cands := o.candidates(d, tree, peps)

	for i := range cands {
		for j := i + 1; j < len(cands); j++ {
			ci, cj := cands[i], cands[j]
			n := ci.keys.intersection(cj.keys)
			switch {
			case n == 0:
			case n == len(cj.keys):
				ci.subs = append(ci.subs, j)
				cj.isSub = true
			case n == len(ci.keys):
				cj.subs = append(cj.subs, i)
				ci.isSub = true
			default:
				ci.intersected++
				cj.intersected++
			}
		}
	}

	var res []*report.Protein
	reportedKeys := make(keySet)
	publish := func(c *occamCandidate) {
		for _, sub := range c.subs {
			c.protein.AddSubset(cands[sub].protein)
		}
		res = append(res, c.protein)
		for k := range c.keys {
			reportedKeys[k] = struct{}{}
		}
	}

	var unreported []int
	for i, c := range cands {
		switch {
		case c.isSub:
		case c.intersected == 0:
			publish(c)
		default:
			unreported = append(unreported, i)
		}
	}

	for len(unreported) > 0 {
		var most []int
		var mostKeys keySet
		for _, i := range unreported {
			canReport := make(keySet)
			for k := range cands[i].keys {
				if _, ok := reportedKeys[k]; !ok {
					canReport[k] = struct{}{}
				}
			}
			switch {
			case len(canReport) > len(mostKeys):
				most = []int{i}
				mostKeys = canReport
			case len(canReport) > 0 && canReport.equal(mostKeys):
				most = append(most, i)
			}
		}
		if len(most) == 0 {
			break
		}

		for _, i := range most {
			publish(cands[i])
		}
		unreported = slices.DeleteFunc(unreported, func(i int) bool {
			return slices.Contains(most, i)
		})
	}
	return res
}

// candidates returns proteins of the tree's groups with accessions and
// peptides that pass protein filters, in group id order. Groups with the
// same peptides are merged into one protein.
func (o *Occam) candidates(
	d Data,
	tree intermediate.GroupMap,
	peps map[int64][]*report.Peptide,
) []*occamCandidate {
	var ids []int64
	keysByGroup := make(map[int64]keySet)
	sameSets := make(map[int64][]int64)
	bySignature := make(map[string]int64)

	for _, gid := range tree.IDs() {
		if len(tree[gid].Accessions) == 0 {
			continue
		}
		keys := make(keySet)
		for _, pep := range groupPeptides(d.Groups, gid, peps) {
			keys[pep.StringID] = struct{}{}
		}
		if len(keys) == 0 {
			continue
		}
		sig := keys.signature()
		if first, ok := bySignature[sig]; ok {
			sameSets[first] = append(sameSets[first], gid)
			continue
		}
		bySignature[sig] = gid
		keysByGroup[gid] = keys
		ids = append(ids, gid)
	}

	protFilters := filter.ByLevel(o.Filters, filter.ProteinLevel)
	res := make([]*occamCandidate, 0, len(ids))
	for _, gid := range ids {
		p := o.createProtein(d, gid, peps, sameSets, nil, nil)
		if !filter.SatisfiesAll(protFilters, p, 0) {
			continue
		}
		res = append(res, &occamCandidate{protein: p, keys: keysByGroup[gid]})
	}
	return res
}
