package bayes

import (
	"github.com/SFUStatgen/TJ2022/genotype"
)

// factor is a nonnegative table over a small set of genotype
// variables. Entries are indexed with the first variable slowest,
// exactly as nested loops over the scope would produce them.
type factor struct {
	ids []int
	p   []float64
}

func newFactor(ids []int) *factor {
	n := 1
	for range ids {
		n *= genotype.NStates
	}
	return &factor{ids: ids, p: make([]float64, n)}
}

// pos returns the position of the variable in the factor scope, -1 if
// it is absent.
func (f *factor) pos(id int) int {
	for i, v := range f.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// stride returns the index stride of the variable at scope position i.
func (f *factor) stride(i int) int {
	s := 1
	for j := i + 1; j < len(f.ids); j++ {
		s *= genotype.NStates
	}
	return s
}

// priorFactor builds a single-variable factor from a distribution.
func priorFactor(id int, d genotype.Distribution) *factor {
	f := newFactor([]int{id})
	copy(f.p, d[:])
	return f
}

// trioFactor builds P(child | father, mother) over the scope
// (father, mother, child).
func trioFactor(child, father, mother int, t *genotype.Table) *factor {
	f := newFactor([]int{father, mother, child})
	i := 0
	for fg := genotype.State(0); fg < genotype.NStates; fg++ {
		for mg := genotype.State(0); mg < genotype.NStates; mg++ {
			d := t.ChildDist(fg, mg)
			for _, p := range d {
				f.p[i] = p
				i++
			}
		}
	}
	return f
}

// restrict returns a copy with every entry inconsistent with id=state
// zeroed. The variable stays in scope so a later sum-out needs no
// special case.
func (f *factor) restrict(id int, state genotype.State) *factor {
	i := f.pos(id)
	if i < 0 {
		return f
	}
	out := &factor{ids: f.ids, p: make([]float64, len(f.p))}
	st := f.stride(i)
	for k, v := range f.p {
		if (k/st)%genotype.NStates == int(state) {
			out.p[k] = v
		}
	}
	return out
}

// sumOut marginalizes the variable out of the factor.
func (f *factor) sumOut(id int) *factor {
	i := f.pos(id)
	if i < 0 {
		return f
	}
	ids := make([]int, 0, len(f.ids)-1)
	ids = append(ids, f.ids[:i]...)
	ids = append(ids, f.ids[i+1:]...)
	out := newFactor(ids)
	st := f.stride(i)
	for k := range out.p {
		base := (k/st)*st*genotype.NStates + k%st
		s := 0.0
		for v := 0; v < genotype.NStates; v++ {
			s += f.p[base+v*st]
		}
		out.p[k] = s
	}
	return out
}

// product multiplies two factors over the union of their scopes.
func product(a, b *factor) *factor {
	ids := make([]int, len(a.ids), len(a.ids)+len(b.ids))
	copy(ids, a.ids)
	for _, id := range b.ids {
		if a.pos(id) < 0 {
			ids = append(ids, id)
		}
	}
	out := newFactor(ids)
	pa := indexMap(a.ids, ids)
	pb := indexMap(b.ids, ids)
	assign := make([]int, len(ids))
	for k := range out.p {
		decode(k, assign)
		out.p[k] = a.p[encode(assign, pa)] * b.p[encode(assign, pb)]
	}
	return out
}

// reorder permutes the factor scope into the given variable order,
// which must contain exactly the scope variables.
func (f *factor) reorder(ids []int) *factor {
	if len(ids) == len(f.ids) {
		same := true
		for i, id := range ids {
			if f.ids[i] != id {
				same = false
				break
			}
		}
		if same {
			return f
		}
	}
	out := newFactor(ids)
	pos := indexMap(f.ids, ids)
	assign := make([]int, len(ids))
	for k := range out.p {
		decode(k, assign)
		out.p[k] = f.p[encode(assign, pos)]
	}
	return out
}

// indexMap returns, for every variable of sub, its position in all.
func indexMap(sub, all []int) []int {
	pos := make([]int, len(sub))
	for i, id := range sub {
		pos[i] = -1
		for j, v := range all {
			if v == id {
				pos[i] = j
				break
			}
		}
		if pos[i] < 0 {
			panic("factor variable missing from scope")
		}
	}
	return pos
}

// decode expands a flat index into a per-variable assignment, first
// variable slowest.
func decode(k int, assign []int) {
	for i := len(assign) - 1; i >= 0; i-- {
		assign[i] = k % genotype.NStates
		k /= genotype.NStates
	}
}

// encode folds the assignment values at the given positions back into
// a flat index.
func encode(assign []int, pos []int) int {
	k := 0
	for _, p := range pos {
		k = k*genotype.NStates + assign[p]
	}
	return k
}
