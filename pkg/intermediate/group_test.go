package intermediate_test

import (
	"testing"

	"github.com/gnames/gnpia/pkg/intermediate"
	"github.com/stretchr/testify/assert"
)

// chain builds 1 -> 2 -> 3 with an extra parent 4 of group 3.
func chain() intermediate.GroupMap {
	gm := make(intermediate.GroupMap)
	for id := int64(1); id <= 4; id++ {
		gm[id] = intermediate.NewGroup(id)
	}
	gm.AddAccession(1, 10)
	gm.AddAccession(4, 40)
	gm.AddChild(1, 2)
	gm.AddChild(2, 3)
	gm.AddChild(4, 3)
	gm[3].Peptides.Add(100)
	gm[2].Peptides.Add(200)
	return gm
}

func TestGroupPropagation(t *testing.T) {
	gm := chain()
	assert.Equal(t, []int64{10}, gm[2].AllAccessions.Sorted())
	assert.Equal(t, []int64{10, 40}, gm[3].AllAccessions.Sorted())

	gm.AddAccession(2, 20)
	assert.Equal(t, []int64{10, 20, 40}, gm[3].AllAccessions.Sorted())
	assert.Equal(t, []int64{10}, gm[1].AllAccessions.Sorted())

	gm.RemoveAccession(1, 10)
	assert.Empty(t, gm[1].Accessions)
	assert.Equal(t, []int64{20, 40}, gm[3].AllAccessions.Sorted())
	assert.Equal(t, []int64{20}, gm[2].AllAccessions.Sorted())
}

func TestGroupRelatives(t *testing.T) {
	gm := chain()
	assert.Equal(t, []int64{2, 3}, gm.Descendants(1).Sorted())
	assert.Equal(t, []int64{2, 3}, gm.PeptideChildren(1))
	assert.Equal(t, []int64{3}, gm.PeptideChildren(2))
	assert.Empty(t, gm.PeptideChildren(3))
	assert.Equal(t, []int64{100, 200}, gm.AllPeptides(1).Sorted())
	assert.Equal(t, []int64{100}, gm.AllPeptides(4).Sorted())
	assert.Equal(t, []int64{1, 2, 3, 4}, gm.IDs())
}

func TestGroupShift(t *testing.T) {
	gm := chain()
	g := gm[3]
	g.TreeID = 1
	g.Shift(10, 5)
	assert.Equal(t, int64(13), g.ID)
	assert.Equal(t, int64(6), g.TreeID)
	assert.Equal(t, []int64{12, 14}, g.Parents.Sorted())
	assert.Empty(t, g.Children)
}

func TestTrees(t *testing.T) {
	gm := chain()
	gm[1].TreeID = 1
	gm[2].TreeID = 1
	gm[3].TreeID = 1
	gm[4].TreeID = 2
	trees := gm.Trees()
	assert.Len(t, trees, 2)
	assert.Equal(t, []int64{1, 2, 3}, trees[1].IDs())
	assert.Equal(t, []int64{4}, trees[2].IDs())
}

func TestIDSet(t *testing.T) {
	a := intermediate.NewIDSet(1, 2)
	b := intermediate.NewIDSet(1, 2, 3)
	assert.True(t, a.SubsetOf(b))
	assert.False(t, b.SubsetOf(a))
	assert.False(t, a.Equal(b))
	c := b.Clone()
	c.Remove(3)
	assert.True(t, a.Equal(c))
	assert.True(t, b.Has(3))
}
