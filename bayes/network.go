// Package bayes compiles a pedigree into a discrete network of
// genotype variables, one conditional probability table per
// individual, and answers marginal and joint queries on it by exact
// inference.
package bayes

import (
	"sort"

	"github.com/op/go-logging"

	"github.com/SFUStatgen/TJ2022/genotype"
	"github.com/SFUStatgen/TJ2022/pedigree"
)

var log = logging.MustGetLogger("bayes")

// Evidence maps individual identifiers to observed genotype states.
type Evidence map[int]genotype.State

// Network is a compiled genotype network for a fixed tau: a founder
// prior or a transmission table bound to the parents for every
// individual, plus the evidence applied so far. A network is never
// mutated; Condition returns a new snapshot sharing the factor tables.
type Network struct {
	ped      *pedigree.Pedigree
	tau      float64
	factors  []*factor
	elim     []int
	evidence Evidence
}

// New compiles the pedigree into a network for the given transmission
// probability. An InvalidParameterError is returned for tau outside
// [0, 1]; the pedigree is assumed to be validated by its constructor.
func New(ped *pedigree.Pedigree, tau float64) (*Network, error) {
	if tau < 0 || tau > 1 {
		return nil, invalidf("tau=%v outside [0,1]", tau)
	}
	table := genotype.NewTable(tau)
	order := ped.NodeOrder()
	net := &Network{
		ped:      ped,
		tau:      tau,
		factors:  make([]*factor, 0, len(order)),
		elim:     make([]int, len(order)),
		evidence: Evidence{},
	}
	for i, id := range order {
		if f, m, ok := ped.ParentsOf(id); ok {
			net.factors = append(net.factors, trioFactor(id, f, m, table))
		} else {
			net.factors = append(net.factors, priorFactor(id, genotype.FounderPrior()))
		}
		// children-first elimination keeps intermediate scopes small
		// on a trio forest; any order would still be exact
		net.elim[len(order)-1-i] = id
	}
	return net, nil
}

// Tau returns the transmission probability the network was built with.
func (net *Network) Tau() float64 {
	return net.tau
}

// Pedigree returns the underlying pedigree.
func (net *Network) Pedigree() *pedigree.Pedigree {
	return net.ped
}

// Evidence returns a copy of the evidence applied so far.
func (net *Network) Evidence() Evidence {
	ev := make(Evidence, len(net.evidence))
	for id, state := range net.evidence {
		ev[id] = state
	}
	return ev
}

// Condition clamps every variable of ev to its state and returns a new
// network snapshot; the receiver is unchanged. Variables are applied
// in ascending identifier order. Each state must have nonzero
// probability under the evidence applied up to that point, otherwise
// an InferenceError is returned; the check runs on the marginal before
// clamping, so a zero-probability event never turns into a division by
// zero.
func (net *Network) Condition(ev Evidence) (*Network, error) {
	ids := make([]int, 0, len(ev))
	for id := range ev {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	cur := net
	for _, id := range ids {
		state := ev[id]
		if !cur.ped.Has(id) {
			return nil, invalidf("unknown individual %d in evidence", id)
		}
		if !state.Valid() {
			return nil, invalidf("genotype state %d of individual %d outside domain", state, id)
		}
		m, err := cur.Marginal(id)
		if err != nil {
			return nil, err
		}
		if m[state] == 0 {
			return nil, &InferenceError{ID: id, State: state}
		}
		next := &Network{
			ped:      cur.ped,
			tau:      cur.tau,
			factors:  cur.factors,
			elim:     cur.elim,
			evidence: make(Evidence, len(cur.evidence)+1),
		}
		for k, v := range cur.evidence {
			next.evidence[k] = v
		}
		next.evidence[id] = state
		log.Debugf("conditioned %d=%d (p=%v)", id, state, m[state])
		cur = next
	}
	return cur, nil
}

// Marginal returns the distribution of the individual's genotype given
// all evidence applied so far, by exact summation over the remaining
// variables.
func (net *Network) Marginal(id int) (genotype.Distribution, error) {
	var d genotype.Distribution
	if !net.ped.Has(id) {
		return d, invalidf("unknown individual %d", id)
	}
	f, err := net.query([]int{id})
	if err != nil {
		return d, err
	}
	copy(d[:], f.p)
	return d, nil
}

// Table is a normalized joint distribution over a set of individuals;
// states of the last identifier vary fastest.
type Table struct {
	IDs []int
	P   []float64
}

// At returns the joint probability of the given states, one per
// identifier of the table.
func (t *Table) At(states ...genotype.State) float64 {
	if len(states) != len(t.IDs) {
		panic("wrong number of states for joint table")
	}
	k := 0
	for _, s := range states {
		k = k*genotype.NStates + int(s)
	}
	return t.P[k]
}

// Joint returns the joint distribution over the given individuals
// under the evidence applied so far.
func (net *Network) Joint(ids ...int) (*Table, error) {
	if len(ids) == 0 {
		return nil, invalidf("empty joint query")
	}
	for i, id := range ids {
		if !net.ped.Has(id) {
			return nil, invalidf("unknown individual %d", id)
		}
		for _, prev := range ids[:i] {
			if prev == id {
				return nil, invalidf("individual %d repeated in joint query", id)
			}
		}
	}
	f, err := net.query(ids)
	if err != nil {
		return nil, err
	}
	t := &Table{IDs: make([]int, len(ids)), P: f.p}
	copy(t.IDs, ids)
	return t, nil
}

// query restricts all factors by the evidence, eliminates every
// variable outside keep and returns the normalized result with its
// scope ordered as keep.
func (net *Network) query(keep []int) (*factor, error) {
	fs := make([]*factor, len(net.factors))
	copy(fs, net.factors)
	for id, state := range net.evidence {
		for i, f := range fs {
			if f.pos(id) >= 0 {
				fs[i] = f.restrict(id, state)
			}
		}
	}

	for _, id := range net.elim {
		if containsID(keep, id) {
			continue
		}
		var joined *factor
		rest := make([]*factor, 0, len(fs))
		for _, f := range fs {
			if f.pos(id) < 0 {
				rest = append(rest, f)
				continue
			}
			if joined == nil {
				joined = f
			} else {
				joined = product(joined, f)
			}
		}
		if joined != nil {
			rest = append(rest, joined.sumOut(id))
		}
		fs = rest
	}

	res := newFactor(nil)
	res.p[0] = 1
	for _, f := range fs {
		res = product(res, f)
	}
	res = res.reorder(keep)

	total := 0.0
	for _, v := range res.p {
		total += v
	}
	if total == 0 {
		// unreachable when all evidence went through Condition
		return nil, &InferenceError{Msg: "evidence has zero joint probability"}
	}
	for i := range res.p {
		res.p[i] /= total
	}
	return res, nil
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
