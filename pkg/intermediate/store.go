// Package intermediate holds the compiled evidence: the arena of
// accessions, peptides and PSMs addressed by integer ids, the Group graph
// built from them and the partition of the accession-peptide relation
// into independent clusters.
//
// This is a pure package without I/O.
package intermediate

import (
	"fmt"
	"slices"
	"sync"
)

// Store keeps all entities of one compilation. Ids start from 1 and
// are equal to the position of the entity in its arena plus one.
// Insert methods are safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	files      []*InputFile
	accessions []*Accession
	accByName  map[string]int64
	peptides   []*Peptide
	pepBySeq   map[string]int64
	psms       []*PSM

	// adjacency is only needed until the graph is built
	accPeps map[int64]IDSet
	pepAccs map[int64]IDSet
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accByName: make(map[string]int64),
		pepBySeq:  make(map[string]int64),
		accPeps:   make(map[int64]IDSet),
		pepAccs:   make(map[int64]IDSet),
	}
}

// AddInputFile registers a result file and returns it with a new id.
func (s *Store) AddInputFile(name, path, format string) *InputFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &InputFile{
		ID:     int64(len(s.files) + 1),
		Name:   name,
		Path:   path,
		Format: format,
	}
	s.files = append(s.files, f)
	return f
}

// InsertAccession returns the accession with the given string, creating
// it if needed. A non-empty sequence is stored if none is known yet.
func (s *Store) InsertAccession(acc, sequence string) *Accession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.accByName[acc]; ok {
		a := s.accessions[id-1]
		if a.Sequence == "" && sequence != "" {
			a.Sequence = sequence
		}
		return a
	}
	a := &Accession{
		ID:           int64(len(s.accessions) + 1),
		Accession:    acc,
		Sequence:     sequence,
		FileIDs:      make(IDSet),
		Descriptions: make(map[int64]string),
	}
	s.accessions = append(s.accessions, a)
	s.accByName[acc] = a.ID
	// accessions without peptides still form their own cluster
	if s.accPeps != nil {
		s.accPeps[a.ID] = make(IDSet)
	}
	return a
}

// AddAccessionFile records that a file reported the accession, with an
// optional description and search database reference.
func (s *Store) AddAccessionFile(
	accID, fileID int64,
	description, dbRef string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.accession(accID)
	if err != nil {
		return err
	}
	a.FileIDs.Add(fileID)
	if description != "" {
		a.Descriptions[fileID] = description
	}
	if dbRef != "" && !slices.Contains(a.DBRefs, dbRef) {
		a.DBRefs = append(a.DBRefs, dbRef)
	}
	return nil
}

// InsertPeptide returns the peptide with the given sequence, creating it
// if needed.
func (s *Store) InsertPeptide(sequence string) *Peptide {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.pepBySeq[sequence]; ok {
		return s.peptides[id-1]
	}
	p := &Peptide{
		ID:       int64(len(s.peptides) + 1),
		Sequence: sequence,
	}
	s.peptides = append(s.peptides, p)
	s.pepBySeq[sequence] = p.ID
	return p
}

// AddOccurrence records the position of a peptide in a protein. Repeated
// occurrences are ignored.
func (s *Store) AddOccurrence(pepID int64, occ Occurrence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.peptide(pepID)
	if err != nil {
		return err
	}
	if !slices.Contains(p.Occurrences, occ) {
		p.Occurrences = append(p.Occurrences, occ)
	}
	return nil
}

// InsertPSM stores a completed PSM, assigns its id and links it to its
// peptide. The PSM must not be changed afterwards.
func (s *Store) InsertPSM(psm *PSM) (*PSM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.peptide(psm.PeptideID)
	if err != nil {
		return nil, err
	}
	psm.ID = int64(len(s.psms) + 1)
	psm.SortModifications()
	s.psms = append(s.psms, psm)
	p.PSMIDs = append(p.PSMIDs, psm.ID)
	return psm, nil
}

// AddAccessionPeptideConnection adds an edge of the accession-peptide
// relation used by the cluster partitioner.
func (s *Store) AddAccessionPeptideConnection(accID, pepID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.accession(accID); err != nil {
		return err
	}
	if _, err := s.peptide(pepID); err != nil {
		return err
	}
	if s.accPeps == nil {
		return fmt.Errorf("adjacency was already released")
	}
	if _, ok := s.accPeps[accID]; !ok {
		s.accPeps[accID] = make(IDSet)
	}
	s.accPeps[accID].Add(pepID)
	if _, ok := s.pepAccs[pepID]; !ok {
		s.pepAccs[pepID] = make(IDSet)
	}
	s.pepAccs[pepID].Add(accID)
	return nil
}

// InputFile returns a file by id or nil.
func (s *Store) InputFile(id int64) *InputFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 1 || int(id) > len(s.files) {
		return nil
	}
	return s.files[id-1]
}

// Accession returns an accession by id or nil.
func (s *Store) Accession(id int64) *Accession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, _ := s.accession(id)
	return a
}

// AccessionByName returns an accession by its string or nil.
func (s *Store) AccessionByName(acc string) *Accession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.accByName[acc]; ok {
		return s.accessions[id-1]
	}
	return nil
}

// Peptide returns a peptide by id or nil.
func (s *Store) Peptide(id int64) *Peptide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, _ := s.peptide(id)
	return p
}

// PeptideBySequence returns a peptide by its sequence or nil.
func (s *Store) PeptideBySequence(seq string) *Peptide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.pepBySeq[seq]; ok {
		return s.peptides[id-1]
	}
	return nil
}

// PSM returns a PSM by id or nil.
func (s *Store) PSM(id int64) *PSM {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 1 || int(id) > len(s.psms) {
		return nil
	}
	return s.psms[id-1]
}

// InputFiles returns all files ordered by id.
func (s *Store) InputFiles() []*InputFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.files)
}

// Accessions returns all accessions ordered by id.
func (s *Store) Accessions() []*Accession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.accessions)
}

// Peptides returns all peptides ordered by id.
func (s *Store) Peptides() []*Peptide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.peptides)
}

// PSMs returns all PSMs ordered by id.
func (s *Store) PSMs() []*PSM {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.psms)
}

// Clusters partitions the accession-peptide relation into connected
// components and releases the relation afterwards.
func (s *Store) Clusters() []Cluster {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := Partition(s.accPeps, s.pepAccs)
	s.accPeps = nil
	s.pepAccs = nil
	return res
}

// AssignGroups sets GroupID of accessions and peptides to the groups
// that hold them directly.
func (s *Store) AssignGroups(groups GroupMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range groups {
		for accID := range g.Accessions {
			a, err := s.accession(accID)
			if err != nil {
				return err
			}
			a.GroupID = g.ID
		}
		for pepID := range g.Peptides {
			p, err := s.peptide(pepID)
			if err != nil {
				return err
			}
			p.GroupID = g.ID
		}
	}
	return nil
}

// RestoreInputFile, RestoreAccession, RestorePeptide and RestorePSM put
// already numbered entities back into an empty arena, in id order.

func (s *Store) RestoreInputFile(f *InputFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID != int64(len(s.files)+1) {
		return fmt.Errorf("file id %d is out of order", f.ID)
	}
	s.files = append(s.files, f)
	return nil
}

func (s *Store) RestoreAccession(a *Accession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID != int64(len(s.accessions)+1) {
		return fmt.Errorf("accession id %d is out of order", a.ID)
	}
	if a.FileIDs == nil {
		a.FileIDs = make(IDSet)
	}
	if a.Descriptions == nil {
		a.Descriptions = make(map[int64]string)
	}
	s.accessions = append(s.accessions, a)
	s.accByName[a.Accession] = a.ID
	return nil
}

func (s *Store) RestorePeptide(p *Peptide) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID != int64(len(s.peptides)+1) {
		return fmt.Errorf("peptide id %d is out of order", p.ID)
	}
	s.peptides = append(s.peptides, p)
	s.pepBySeq[p.Sequence] = p.ID
	return nil
}

func (s *Store) RestorePSM(psm *PSM) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if psm.ID != int64(len(s.psms)+1) {
		return fmt.Errorf("PSM id %d is out of order", psm.ID)
	}
	s.psms = append(s.psms, psm)
	return nil
}

func (s *Store) accession(id int64) (*Accession, error) {
	if id < 1 || int(id) > len(s.accessions) {
		return nil, fmt.Errorf("unknown accession id %d", id)
	}
	return s.accessions[id-1], nil
}

func (s *Store) peptide(id int64) (*Peptide, error) {
	if id < 1 || int(id) > len(s.peptides) {
		return nil, fmt.Errorf("unknown peptide id %d", id)
	}
	return s.peptides[id-1], nil
}
