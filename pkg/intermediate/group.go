package intermediate

import (
	"maps"
	"slices"
)

// Group is a node of the ambiguity graph. Accessions of a group explain
// its own peptides and the peptides of all its descendants, so
// AllAccessions of a group includes AllAccessions of every ancestor.
type Group struct {
	ID     int64
	TreeID int64

	Peptides      IDSet
	Accessions    IDSet
	AllAccessions IDSet
	Children      IDSet
	Parents       IDSet
}

// NewGroup creates an empty group.
func NewGroup(id int64) *Group {
	return &Group{
		ID:            id,
		Peptides:      make(IDSet),
		Accessions:    make(IDSet),
		AllAccessions: make(IDSet),
		Children:      make(IDSet),
		Parents:       make(IDSet),
	}
}

// Shift adds offsets to the ids of the group and of its relatives.
func (g *Group) Shift(idOffset, treeOffset int64) {
	g.ID += idOffset
	g.TreeID += treeOffset
	g.Children = shiftSet(g.Children, idOffset)
	g.Parents = shiftSet(g.Parents, idOffset)
}

func shiftSet(s IDSet, offset int64) IDSet {
	res := make(IDSet, len(s))
	for id := range s {
		res.Add(id + offset)
	}
	return res
}

// GroupMap is the Group graph, groups are keyed by their ids.
type GroupMap map[int64]*Group

// IDs returns sorted group ids.
func (gm GroupMap) IDs() []int64 {
	return slices.Sorted(maps.Keys(gm))
}

// AddChild connects two groups. Accessions of the parent become known
// to the child and all its descendants.
func (gm GroupMap) AddChild(parentID, childID int64) {
	parent, child := gm[parentID], gm[childID]
	if parent == nil || child == nil {
		return
	}
	parent.Children.Add(childID)
	child.Parents.Add(parentID)
	gm.propagate(childID, parent.AllAccessions.Clone())
}

// AddAccession attaches an accession directly to the group.
func (gm GroupMap) AddAccession(groupID, accID int64) {
	g := gm[groupID]
	if g == nil {
		return
	}
	g.Accessions.Add(accID)
	gm.propagate(groupID, NewIDSet(accID))
}

// RemoveAccession detaches an accession from the group and forgets it in
// the descendants.
func (gm GroupMap) RemoveAccession(groupID, accID int64) {
	g := gm[groupID]
	if g == nil {
		return
	}
	g.Accessions.Remove(accID)
	gm.walk(groupID, func(d *Group) {
		d.AllAccessions.Remove(accID)
	})
}

func (gm GroupMap) propagate(groupID int64, accs IDSet) {
	gm.walk(groupID, func(d *Group) {
		d.AllAccessions.AddAll(accs)
	})
}

// walk visits the group and all its descendants once.
func (gm GroupMap) walk(groupID int64, fn func(*Group)) {
	seen := make(IDSet)
	stack := []int64{groupID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen.Has(id) {
			continue
		}
		seen.Add(id)
		g := gm[id]
		if g == nil {
			continue
		}
		fn(g)
		for c := range g.Children {
			stack = append(stack, c)
		}
	}
}

// Descendants returns ids of all groups below the given one.
func (gm GroupMap) Descendants(groupID int64) IDSet {
	res := make(IDSet)
	gm.walk(groupID, func(d *Group) {
		if d.ID != groupID {
			res.Add(d.ID)
		}
	})
	return res
}

// PeptideChildren returns sorted ids of descendants with direct peptides.
func (gm GroupMap) PeptideChildren(groupID int64) []int64 {
	var res []int64
	for id := range gm.Descendants(groupID) {
		if len(gm[id].Peptides) > 0 {
			res = append(res, id)
		}
	}
	slices.Sort(res)
	return res
}

// AllPeptides returns peptides of the group and of its descendants.
func (gm GroupMap) AllPeptides(groupID int64) IDSet {
	res := make(IDSet)
	gm.walk(groupID, func(d *Group) {
		res.AddAll(d.Peptides)
	})
	return res
}

// Trees splits the graph by tree id.
func (gm GroupMap) Trees() map[int64]GroupMap {
	res := make(map[int64]GroupMap)
	for id, g := range gm {
		t, ok := res[g.TreeID]
		if !ok {
			t = make(GroupMap)
			res[g.TreeID] = t
		}
		t[id] = g
	}
	return res
}
