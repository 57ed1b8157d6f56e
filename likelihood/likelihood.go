// Package likelihood evaluates the likelihood of the transmission
// probability tau given the observed carrier pattern among the
// genotyped affected members of a pedigree, under the hypothesis that
// exactly one founder introduced the rare variant.
package likelihood

import (
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/op/go-logging"

	"github.com/SFUStatgen/TJ2022/bayes"
	"github.com/SFUStatgen/TJ2022/genotype"
	"github.com/SFUStatgen/TJ2022/pedigree"
)

var log = logging.MustGetLogger("likelihood")

// Config maps genotyped affected individuals to their observed
// genotype state (0 non-carrier, 1 carrier).
type Config map[int]genotype.State

// ids returns the configuration keys in ascending order.
func (c Config) ids() []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Compute returns P(config | tau): the probability of the observed
// configuration averaged over the equally likely hypotheses of which
// founder introduced the variant. A founder hypothesis under which the
// configuration is impossible contributes a zero term.
func Compute(ped *pedigree.Pedigree, tau float64, config Config) (float64, error) {
	net, err := bayes.New(ped, tau)
	if err != nil {
		return 0, err
	}
	return compute(net, config)
}

func compute(net *bayes.Network, config Config) (float64, error) {
	ped := net.Pedigree()
	founders := ped.Founders()
	if len(founders) == 0 {
		return 0, &bayes.InvalidParameterError{Msg: "pedigree has no founders"}
	}
	if err := validateConfig(ped, config); err != nil {
		return 0, err
	}
	order := config.ids()

	// every founder hypothesis runs on its own conditioned snapshot
	terms := make([]float64, len(founders))
	errs := make([]error, len(founders))
	nWorkers := runtime.GOMAXPROCS(0)
	if nWorkers > len(founders) {
		nWorkers = len(founders)
	}
	tasks := make(chan int, len(founders))
	done := make(chan struct{}, nWorkers)
	for w := 0; w < nWorkers; w++ {
		go func() {
			for i := range tasks {
				terms[i], errs[i] = founderTerm(net, founders, i, order, config)
			}
			done <- struct{}{}
		}()
	}
	for i := range founders {
		tasks <- i
	}
	close(tasks)
	for w := 0; w < nWorkers; w++ {
		<-done
	}

	sum := 0.0
	for i, term := range terms {
		if errs[i] != nil {
			return 0, errs[i]
		}
		log.Debugf("founder %d: term=%v", founders[i], term)
		sum += term
	}
	return sum / float64(len(founders)), nil
}

func validateConfig(ped *pedigree.Pedigree, config Config) error {
	eligible := make(map[int]bool)
	for _, id := range ped.GenotypedAffected() {
		eligible[id] = true
	}
	for _, id := range config.ids() {
		if !eligible[id] {
			return &bayes.InvalidParameterError{
				Msg: fmt.Sprintf("configuration individual %d is not genotyped and affected", id),
			}
		}
		if !config[id].Valid() {
			return &bayes.InvalidParameterError{
				Msg: fmt.Sprintf("configuration state for individual %d outside genotype domain", id),
			}
		}
	}
	return nil
}

// founderTerm computes the probability of the configuration under the
// hypothesis that the i-th founder introduced the variant: that
// founder is clamped to one copy and every other founder to zero
// copies. An impossible hypothesis yields a zero term instead of an
// error so the remaining hypotheses are still evaluated.
func founderTerm(net *bayes.Network, founders []int, i int, order []int, config Config) (float64, error) {
	ev := make(bayes.Evidence, len(founders))
	for j, id := range founders {
		if j == i {
			ev[id] = 1
		} else {
			ev[id] = 0
		}
	}
	cond, err := net.Condition(ev)
	if err != nil {
		var infErr *bayes.InferenceError
		if errors.As(err, &infErr) {
			return 0, nil
		}
		return 0, err
	}
	return configProbability(cond, order, config)
}

// configProbability accumulates the joint probability of the
// configuration by the chain rule: marginal of the next individual,
// then conditioning on its observed state. The product is exact for
// any traversal order; a zero factor short-circuits, since further
// conditioning on a zero-probability event is invalid.
func configProbability(net *bayes.Network, order []int, config Config) (float64, error) {
	prod := 1.0
	for _, id := range order {
		m, err := net.Marginal(id)
		if err != nil {
			return 0, err
		}
		state := config[id]
		prod *= m[state]
		if prod == 0 {
			break
		}
		net, err = net.Condition(bayes.Evidence{id: state})
		if err != nil {
			return 0, err
		}
	}
	return prod, nil
}
