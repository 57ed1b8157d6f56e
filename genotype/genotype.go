// Package genotype defines the three-state genotype domain for a rare
// biallelic variant and the transmission model parameterized by the
// transmission probability tau.
package genotype

import "fmt"

// NStates is the number of genotype states (0, 1 or 2 copies of the
// variant allele).
const NStates = 3

// State is the number of copies of the rare variant allele carried by
// an individual.
type State int

// Valid returns true if the state is inside the genotype domain.
func (s State) Valid() bool {
	return s >= 0 && s < NStates
}

// Distribution is a probability distribution over the genotype states.
type Distribution [NStates]float64

// Sum returns the total probability mass of the distribution.
func (d Distribution) Sum() (s float64) {
	for _, p := range d {
		s += p
	}
	return
}

func (d Distribution) String() string {
	return fmt.Sprintf("[0:%0.6f 1:%0.6f 2:%0.6f]", d[0], d[1], d[2])
}

// Transmit returns the probability that a parent with genotype g
// passes the variant allele to a given child. A homozygous normal
// parent never transmits it, a heterozygous parent transmits it with
// probability tau and a homozygous variant parent always transmits it.
func Transmit(g State, tau float64) float64 {
	switch g {
	case 0:
		return 0
	case 1:
		return tau
	case 2:
		return 1
	}
	panic(fmt.Sprintf("genotype state out of range: %d", g))
}

// Table is the transmission conditional probability table for a fixed
// tau: the distribution of a child genotype for every pair of parental
// genotypes.
type Table [NStates][NStates]Distribution

// NewTable derives the transmission table from the per-parent transmit
// probabilities. The child genotype is the sum of one independently
// transmitted allele from each parent, so every row is a function of
// Transmit(father) and Transmit(mother) only; no entry is ever written
// as a literal.
func NewTable(tau float64) *Table {
	t := new(Table)
	for f := State(0); f < NStates; f++ {
		pf := Transmit(f, tau)
		for m := State(0); m < NStates; m++ {
			pm := Transmit(m, tau)
			t[f][m] = Distribution{
				(1 - pf) * (1 - pm),
				pf*(1-pm) + (1-pf)*pm,
				pf * pm,
			}
		}
	}
	return t
}

// ChildDist returns the child genotype distribution for the given
// parental genotypes.
func (t *Table) ChildDist(father, mother State) Distribution {
	return t[father][mother]
}

// FounderPrior returns the uniform prior over founder genotypes. The
// prior is always overridden by founder evidence during inference; it
// only has to give nonzero mass to every state so that conditioning
// stays well-defined.
func FounderPrior() Distribution {
	return Distribution{1. / 3, 1. / 3, 1. / 3}
}
