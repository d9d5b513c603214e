// Package compiler builds the Group graph out of the accession-peptide
// relation. Clusters are folded independently by a pool of workers, each
// worker keeps its groups with worker-local ids and merges them into the
// global graph once it runs out of clusters.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gnames/gnpia/pkg/anomaly"
	"github.com/gnames/gnpia/pkg/intermediate"
	"golang.org/x/sync/errgroup"
)

// Compiler builds the Group graph for one Store.
type Compiler struct {
	store     *intermediate.Store
	anomalies *anomaly.Collector
	jobs      int

	// OnCluster is called after every folded cluster, if set.
	// It must be safe for concurrent use.
	OnCluster func()

	mu         sync.Mutex
	groups     intermediate.GroupMap
	nrTrees    int64
	noPeptides intermediate.IDSet
}

// New creates a Compiler that uses the given number of workers.
func New(
	store *intermediate.Store,
	anomalies *anomaly.Collector,
	jobs int,
) *Compiler {
	if jobs <= 0 {
		jobs = 1
	}
	return &Compiler{
		store:     store,
		anomalies: anomalies,
		jobs:      jobs,
	}
}

// Build folds all clusters and returns the merged graph. Group ids are
// unique across the graph, TreeID of a group identifies its cluster.
// GroupID fields of the store entities are set to their groups.
func (c *Compiler) Build(
	ctx context.Context,
	clusters []intermediate.Cluster,
) (intermediate.GroupMap, error) {
	c.groups = make(intermediate.GroupMap)
	c.nrTrees = 0
	c.noPeptides = make(intermediate.IDSet)

	chIn := make(chan intermediate.Cluster)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, cl := range clusters {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- cl:
			}
		}
		return nil
	})

	for range c.jobs {
		g.Go(func() error {
			return c.worker(gCtx, chIn)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.checkUngrouped()
	return c.groups, nil
}

// NrTrees returns the number of trees in the built graph.
func (c *Compiler) NrTrees() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nrTrees
}

func (c *Compiler) worker(
	ctx context.Context,
	chIn <-chan intermediate.Cluster,
) error {
	threadGroups := make(intermediate.GroupMap)
	noPeptides := make(intermediate.IDSet)
	var workedTrees int64

	for cl := range chIn {
		select {
		case <-ctx.Done():
			for range chIn {
			}
			return ctx.Err()
		default:
		}

		if len(cl.Peptides) == 0 {
			for _, acc := range cl.Accessions {
				noPeptides.Add(acc)
			}
		} else {
			sg := newSubGraph(c.anomalies)
			for _, pepID := range cl.PeptideIDs() {
				sg.fold(pepID, cl.Peptides[pepID])
			}

			workedTrees++
			offset := int64(len(threadGroups))
			for _, id := range sg.groups.IDs() {
				grp := sg.groups[id]
				grp.TreeID = workedTrees
				grp.Shift(offset, 0)
				threadGroups[grp.ID] = grp
			}
		}

		if c.OnCluster != nil {
			c.OnCluster()
		}
	}

	return c.merge(threadGroups, workedTrees, noPeptides)
}

// merge moves worker groups into the global graph, shifting their ids
// by the number of already merged groups and their tree ids by the
// number of already merged trees.
func (c *Compiler) merge(
	threadGroups intermediate.GroupMap,
	workedTrees int64,
	noPeptides intermediate.IDSet,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := int64(len(c.groups))
	shifted := make(intermediate.GroupMap, len(threadGroups))
	for _, grp := range threadGroups {
		grp.Shift(offset, c.nrTrees)
		if _, ok := c.groups[grp.ID]; ok {
			return fmt.Errorf("group id %d is already taken", grp.ID)
		}
		c.groups[grp.ID] = grp
		shifted[grp.ID] = grp
	}
	c.nrTrees += workedTrees
	c.noPeptides.AddAll(noPeptides)

	return c.store.AssignGroups(shifted)
}

func (c *Compiler) checkUngrouped() {
	for _, a := range c.store.Accessions() {
		if a.GroupID != 0 {
			continue
		}
		if c.noPeptides.Has(a.ID) {
			c.anomalies.Add(anomaly.AccessionWithoutPeptides,
				"accession %s has no peptides", a.Accession)
			continue
		}
		c.anomalies.Add(anomaly.AccessionWithoutGroup,
			"accession %s is not in any group", a.Accession)
	}
	for _, p := range c.store.Peptides() {
		if p.GroupID == 0 {
			c.anomalies.Add(anomaly.MissingGroup,
				"peptide %s is not in any group", p.Sequence)
		}
	}
}
