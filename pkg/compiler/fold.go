package compiler

import (
	"github.com/gnames/gnpia/pkg/anomaly"
	"github.com/gnames/gnpia/pkg/intermediate"
)

// noGroup marks accessions that are not assigned to a group yet.
const noGroup int64 = -1

// subGraph is the Group graph of one cluster. Group ids are local to the
// cluster and start from 1.
type subGraph struct {
	groups    intermediate.GroupMap
	accGroup  map[int64]int64
	pepGroup  map[int64]int64
	anomalies *anomaly.Collector
}

func newSubGraph(anomalies *anomaly.Collector) *subGraph {
	return &subGraph{
		groups:    make(intermediate.GroupMap),
		accGroup:  make(map[int64]int64),
		pepGroup:  make(map[int64]int64),
		anomalies: anomalies,
	}
}

func (sg *subGraph) newGroup() *intermediate.Group {
	g := intermediate.NewGroup(int64(len(sg.groups) + 1))
	sg.groups[g.ID] = g
	return g
}

// fold inserts a peptide with its accessions into the graph.
func (sg *subGraph) fold(pepID int64, accIDs []int64) {
	accs := intermediate.NewIDSet(accIDs...)
	groupAccs := make(map[int64]intermediate.IDSet)
	for acc := range accs {
		gid, ok := sg.accGroup[acc]
		if !ok {
			gid = noGroup
		}
		if groupAccs[gid] == nil {
			groupAccs[gid] = make(intermediate.IDSet)
		}
		groupAccs[gid].Add(acc)
	}

	_, hasUnassigned := groupAccs[noGroup]
	switch {
	case len(groupAccs) == 1 && hasUnassigned:
		g := sg.newGroup()
		sg.connectPeptide(pepID, g.ID)
		for _, acc := range accs.Sorted() {
			sg.connectAccession(acc, g.ID)
		}
	case len(groupAccs) == 1:
		var gid int64
		for id := range groupAccs {
			gid = id
		}
		sg.foldIntoGroup(pepID, gid, groupAccs[gid])
	default:
		sg.foldIntoSubtrees(pepID, accs, groupAccs)
	}
}

// foldIntoGroup handles a peptide whose accessions all belong to one
// group.
func (sg *subGraph) foldIntoGroup(
	pepID, gid int64,
	accs intermediate.IDSet,
) {
	g, ok := sg.groups[gid]
	if !ok {
		sg.anomalies.Add(anomaly.MissingGroup,
			"group %d of peptide %d does not exist", gid, pepID)
		return
	}

	if len(g.Parents) == 0 && g.Accessions.SubsetOf(accs) {
		sg.connectPeptide(pepID, gid)
		return
	}

	between := sg.newGroup()
	sg.connectPeptide(pepID, between.ID)
	sg.groups.AddChild(between.ID, gid)
	for _, acc := range accs.Sorted() {
		sg.connectAccession(acc, between.ID)
	}
}

// foldIntoSubtrees handles a peptide with accessions spread over several
// groups or partly unassigned.
func (sg *subGraph) foldIntoSubtrees(
	pepID int64,
	accs intermediate.IDSet,
	groupAccs map[int64]intermediate.IDSet,
) {
	subTrees, remaining := sg.subtreeGroups(accs)
	_, hasUnassigned := groupAccs[noGroup]

	if len(remaining) == 0 && isSingleSubtree(subTrees) {
		var gid int64
		for id := range subTrees {
			if id > 0 {
				gid = id
			}
		}
		if _, ok := sg.groups[gid]; !ok {
			sg.anomalies.Add(anomaly.MissingGroup,
				"no subtree group for accessions of peptide %d", pepID)
			return
		}

		if hasUnassigned {
			between := sg.newGroup()
			for _, acc := range groupAccs[noGroup].Sorted() {
				sg.connectAccession(acc, between.ID)
			}
			sg.groups.AddChild(gid, between.ID)
			gid = between.ID
		}
		sg.connectPeptide(pepID, gid)
		return
	}

	pepGroup := sg.newGroup()
	sg.connectPeptide(pepID, pepGroup.ID)

	for _, id := range subTrees.Sorted() {
		if id == noGroup {
			for _, acc := range groupAccs[noGroup].Sorted() {
				sg.connectAccession(acc, pepGroup.ID)
			}
			continue
		}
		sg.groups.AddChild(id, pepGroup.ID)
	}

	for _, remID := range remaining.Sorted() {
		between := sg.newGroup()
		sg.groups.AddChild(between.ID, remID)
		sg.groups.AddChild(between.ID, pepGroup.ID)
		for _, acc := range groupAccs[remID].Sorted() {
			sg.connectAccession(acc, between.ID)
		}
	}
}

// isSingleSubtree is true for one assigned subtree, optionally together
// with the unassigned accessions.
func isSingleSubtree(subTrees intermediate.IDSet) bool {
	switch len(subTrees) {
	case 1:
		return !subTrees.Has(noGroup)
	case 2:
		return subTrees.Has(noGroup)
	}
	return false
}

// subtreeGroups finds groups whose whole AllAccessions is covered by the
// accessions, taking the largest first. Groups of accessions that are
// left over after that are returned as remaining.
func (sg *subGraph) subtreeGroups(
	accs intermediate.IDSet,
) (subTrees, remaining intermediate.IDSet) {
	subTrees = make(intermediate.IDSet)
	remaining = make(intermediate.IDSet)
	left := accs.Clone()

	for acc := range accs {
		if _, ok := sg.accGroup[acc]; !ok {
			subTrees.Add(noGroup)
			break
		}
	}

	ids := sg.groups.IDs()
	for {
		var best *intermediate.Group
		for _, id := range ids {
			g := sg.groups[id]
			size := len(g.AllAccessions)
			if size == 0 || !g.AllAccessions.SubsetOf(left) {
				continue
			}
			if best == nil || size > len(best.AllAccessions) {
				best = g
			}
		}
		if best == nil {
			break
		}
		for acc := range best.AllAccessions {
			left.Remove(acc)
		}
		subTrees.Add(best.ID)
	}

	for acc := range left {
		if gid, ok := sg.accGroup[acc]; ok {
			remaining.Add(gid)
		}
	}
	return subTrees, remaining
}

func (sg *subGraph) connectPeptide(pepID, gid int64) {
	if old, ok := sg.pepGroup[pepID]; ok {
		sg.anomalies.Add(anomaly.PeptideRegrouped,
			"peptide %d moved from group %d to group %d", pepID, old, gid)
		sg.groups[old].Peptides.Remove(pepID)
	}
	sg.pepGroup[pepID] = gid
	sg.groups[gid].Peptides.Add(pepID)
}

func (sg *subGraph) connectAccession(accID, gid int64) {
	if old, ok := sg.accGroup[accID]; ok {
		if old == gid {
			return
		}
		sg.groups.RemoveAccession(old, accID)
	}
	sg.accGroup[accID] = gid
	sg.groups.AddAccession(gid, accID)
}
