// Package pedigree provides a validated pedigree: a read-only
// collection of individuals connected by parent-to-child edges.
package pedigree

import (
	"fmt"
	"sort"
)

// Sex of an individual, PLINK coding (0 unknown, 1 male, 2 female).
type Sex int8

// Sex values.
const (
	Unknown Sex = iota
	Male
	Female
)

// Individual is a single pedigree member. A FatherID or MotherID equal
// to zero means the parent is not recorded; an individual with no
// recorded parents is a founder.
type Individual struct {
	ID           int
	FatherID     int
	MotherID     int
	Sex          Sex
	Affected     bool
	DNAAvailable bool
}

// Founder returns true if neither parent is recorded.
func (ind *Individual) Founder() bool {
	return ind.FatherID == 0 && ind.MotherID == 0
}

// MalformedPedigreeError reports an invalid pedigree structure: a
// duplicated identifier, a dangling parent reference, a single
// recorded parent or a parent-child cycle.
type MalformedPedigreeError struct {
	Msg string
}

func (e *MalformedPedigreeError) Error() string {
	return "malformed pedigree: " + e.Msg
}

func malformedf(format string, args ...interface{}) *MalformedPedigreeError {
	return &MalformedPedigreeError{Msg: fmt.Sprintf(format, args...)}
}

// Pedigree is a validated set of individuals forming a parent-to-child
// directed acyclic graph. It is read-only after construction.
type Pedigree struct {
	members  []Individual
	index    map[int]int
	children map[int][]int
	order    []int
}

// New validates the individuals and builds a pedigree. The individuals
// slice is copied. An invalid structure is reported with a
// MalformedPedigreeError.
func New(members []Individual) (*Pedigree, error) {
	p := &Pedigree{
		members:  make([]Individual, len(members)),
		index:    make(map[int]int, len(members)),
		children: make(map[int][]int),
	}
	copy(p.members, members)

	for i, ind := range p.members {
		if ind.ID == 0 {
			return nil, malformedf("individual at position %d has a zero identifier", i)
		}
		if _, ok := p.index[ind.ID]; ok {
			return nil, malformedf("duplicate identifier %d", ind.ID)
		}
		p.index[ind.ID] = i
	}

	for i := range p.members {
		ind := &p.members[i]
		if ind.Founder() {
			continue
		}
		if ind.FatherID == 0 || ind.MotherID == 0 {
			return nil, malformedf("individual %d has a single recorded parent", ind.ID)
		}
		if ind.FatherID == ind.MotherID {
			return nil, malformedf("individual %d lists the same individual %d as both parents", ind.ID, ind.FatherID)
		}
		for _, pid := range [2]int{ind.FatherID, ind.MotherID} {
			if pid == ind.ID {
				return nil, malformedf("individual %d is its own parent", ind.ID)
			}
			if _, ok := p.index[pid]; !ok {
				return nil, malformedf("individual %d references unknown parent %d", ind.ID, pid)
			}
			p.children[pid] = append(p.children[pid], ind.ID)
		}
	}

	if err := p.buildOrder(); err != nil {
		return nil, err
	}
	return p, nil
}

// buildOrder computes a parent-before-child ordering of the
// identifiers (Kahn). Individuals left unordered after the queue
// drains lie on a cycle.
func (p *Pedigree) buildOrder() error {
	indeg := make(map[int]int, len(p.members))
	queue := make([]int, 0, len(p.members))
	for i := range p.members {
		ind := &p.members[i]
		if ind.Founder() {
			queue = append(queue, ind.ID)
		} else {
			indeg[ind.ID] = 2
		}
	}

	p.order = make([]int, 0, len(p.members))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		p.order = append(p.order, id)
		for _, c := range p.children[id] {
			indeg[c]--
			if indeg[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(p.order) != len(p.members) {
		rest := make([]int, 0, len(p.members)-len(p.order))
		for id, d := range indeg {
			if d > 0 {
				rest = append(rest, id)
			}
		}
		sort.Ints(rest)
		return malformedf("cycle detected involving individuals %v", rest)
	}
	return nil
}

// NInd returns the number of individuals.
func (p *Pedigree) NInd() int {
	return len(p.members)
}

// Has reports whether the identifier belongs to the pedigree.
func (p *Pedigree) Has(id int) bool {
	_, ok := p.index[id]
	return ok
}

// Get returns the individual with the given identifier.
func (p *Pedigree) Get(id int) (Individual, bool) {
	i, ok := p.index[id]
	if !ok {
		return Individual{}, false
	}
	return p.members[i], true
}

// Individuals returns a copy of all pedigree members in input order.
func (p *Pedigree) Individuals() []Individual {
	members := make([]Individual, len(p.members))
	copy(members, p.members)
	return members
}

// Founders returns the sorted identifiers of all individuals without
// recorded parents.
func (p *Pedigree) Founders() []int {
	ids := make([]int, 0, len(p.members))
	for i := range p.members {
		if p.members[i].Founder() {
			ids = append(ids, p.members[i].ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// ParentsOf returns the father and mother identifiers of the
// individual; ok is false for founders and unknown identifiers.
func (p *Pedigree) ParentsOf(id int) (father, mother int, ok bool) {
	i, ok := p.index[id]
	if !ok || p.members[i].Founder() {
		return 0, 0, false
	}
	return p.members[i].FatherID, p.members[i].MotherID, true
}

// Children returns the sorted identifiers of the individual's
// children.
func (p *Pedigree) Children(id int) []int {
	ids := make([]int, len(p.children[id]))
	copy(ids, p.children[id])
	sort.Ints(ids)
	return ids
}

// GenotypedAffected returns the sorted identifiers of all individuals
// that are affected and have DNA available.
func (p *Pedigree) GenotypedAffected() []int {
	ids := make([]int, 0, len(p.members))
	for i := range p.members {
		if p.members[i].Affected && p.members[i].DNAAvailable {
			ids = append(ids, p.members[i].ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// NodeOrder returns all identifiers with parents before children. The
// returned slice must not be modified.
func (p *Pedigree) NodeOrder() []int {
	return p.order
}
