package intermediate

import (
	"maps"
	"slices"
)

// Cluster is a connected component of the accession-peptide relation.
// No peptide of a cluster shares an accession with a peptide of another
// cluster.
type Cluster struct {
	Accessions []int64
	// Peptides maps peptide id to the sorted ids of its accessions.
	Peptides map[int64][]int64
}

// PeptideIDs returns sorted peptide ids of the cluster.
func (c Cluster) PeptideIDs() []int64 {
	return slices.Sorted(maps.Keys(c.Peptides))
}

// Partition finds connected components by frontier expansion, seeding
// every new cluster from the smallest accession id not visited yet.
func Partition(accPeps, pepAccs map[int64]IDSet) []Cluster {
	var res []Cluster
	visitedAcc := make(IDSet)
	visitedPep := make(IDSet)

	for _, seed := range slices.Sorted(maps.Keys(accPeps)) {
		if visitedAcc.Has(seed) {
			continue
		}
		accs := NewIDSet(seed)
		peps := make(IDSet)
		frontier := []int64{seed}
		visitedAcc.Add(seed)
		for len(frontier) > 0 {
			var newPeps []int64
			for _, acc := range frontier {
				for pep := range accPeps[acc] {
					if !visitedPep.Has(pep) {
						visitedPep.Add(pep)
						peps.Add(pep)
						newPeps = append(newPeps, pep)
					}
				}
			}
			frontier = frontier[:0]
			for _, pep := range newPeps {
				for acc := range pepAccs[pep] {
					if !visitedAcc.Has(acc) {
						visitedAcc.Add(acc)
						accs.Add(acc)
						frontier = append(frontier, acc)
					}
				}
			}
		}

		c := Cluster{
			Accessions: accs.Sorted(),
			Peptides:   make(map[int64][]int64, len(peps)),
		}
		for pep := range peps {
			c.Peptides[pep] = pepAccs[pep].Sorted()
		}
		res = append(res, c)
	}
	return res
}
