package likelihood

import (
	"math"
	"testing"

	"github.com/op/go-logging"

	"github.com/SFUStatgen/TJ2022/bayes"
	"github.com/SFUStatgen/TJ2022/genotype"
	"github.com/SFUStatgen/TJ2022/pedigree"
)

const smallDiff = 1e-9

func init() {
	logging.SetLevel(logging.WARNING, "likelihood")
	logging.SetLevel(logging.WARNING, "bayes")
}

// ninePed builds the reference pedigree: founders 1, 2, 4 and 6;
// children 3 and 5 of 1x2, 7 of 3x4, 8 and 9 of 5x6; 7, 8 and 9
// affected and genotyped.
func ninePed(tst testing.TB) *pedigree.Pedigree {
	ped, err := pedigree.New([]pedigree.Individual{
		{ID: 1, Sex: pedigree.Male},
		{ID: 2, Sex: pedigree.Female},
		{ID: 3, FatherID: 1, MotherID: 2, Sex: pedigree.Male},
		{ID: 4, Sex: pedigree.Female},
		{ID: 5, FatherID: 1, MotherID: 2, Sex: pedigree.Male},
		{ID: 6, Sex: pedigree.Female},
		{ID: 7, FatherID: 3, MotherID: 4, Sex: pedigree.Male, Affected: true, DNAAvailable: true},
		{ID: 8, FatherID: 5, MotherID: 6, Sex: pedigree.Female, Affected: true, DNAAvailable: true},
		{ID: 9, FatherID: 5, MotherID: 6, Sex: pedigree.Male, Affected: true, DNAAvailable: true},
	})
	if err != nil {
		tst.Fatal("Error building pedigree:", err)
	}
	return ped
}

// Scenario A: all three genotyped affected individuals carry the
// variant; closed form 2*tau^5/4.
func TestScenarioA(tst *testing.T) {
	tau := 0.75
	ped := ninePed(tst)
	l, err := Compute(ped, tau, Config{7: 1, 8: 1, 9: 1})
	if err != nil {
		tst.Fatal("Error computing likelihood:", err)
	}
	ref := 2 * math.Pow(tau, 5) / 4
	tst.Log("L=", l, ", Ref=", ref, ", diff=", math.Abs(l-ref))
	if math.Abs(l-ref) > smallDiff {
		tst.Error("Expected ", ref, ", got", l)
	}
}

// Scenario B: individual 9 is a non-carrier; closed form
// tau^4*(1-tau)/2.
func TestScenarioB(tst *testing.T) {
	tau := 0.75
	ped := ninePed(tst)
	l, err := Compute(ped, tau, Config{7: 1, 8: 1, 9: 0})
	if err != nil {
		tst.Fatal("Error computing likelihood:", err)
	}
	ref := math.Pow(tau, 4) * (1 - tau) / 2
	tst.Log("L=", l, ", Ref=", ref, ", diff=", math.Abs(l-ref))
	if math.Abs(l-ref) > smallDiff {
		tst.Error("Expected ", ref, ", got", l)
	}
}

func TestBoundaryTauZero(tst *testing.T) {
	ped := ninePed(tst)
	// any observed carrier is impossible without transmission
	l, err := Compute(ped, 0, Config{7: 1, 8: 0, 9: 0})
	if err != nil {
		tst.Fatal("Error computing likelihood:", err)
	}
	if l != 0 {
		tst.Error("Expected zero likelihood, got", l)
	}
	// the all-non-carrier configuration is certain under every
	// hypothesis whose introduced allele never reaches 7, 8 or 9
	l, err = Compute(ped, 0, Config{7: 0, 8: 0, 9: 0})
	if err != nil {
		tst.Fatal("Error computing likelihood:", err)
	}
	if math.Abs(l-1) > smallDiff {
		tst.Error("Expected likelihood 1, got", l)
	}
}

func TestBoundaryTauOne(tst *testing.T) {
	ped := ninePed(tst)
	// deterministic transmission: hypotheses 1 and 2 each give the
	// all-carrier configuration with certainty, 4 and 6 cannot
	l, err := Compute(ped, 1, Config{7: 1, 8: 1, 9: 1})
	if err != nil {
		tst.Fatal("Error computing likelihood:", err)
	}
	if math.Abs(l-0.5) > smallDiff {
		tst.Error("Expected likelihood 0.5, got", l)
	}
	// a non-carrier among carriers is impossible when every carrier
	// parent transmits
	l, err = Compute(ped, 1, Config{7: 1, 8: 1, 9: 0})
	if err != nil {
		tst.Fatal("Error computing likelihood:", err)
	}
	if l != 0 {
		tst.Error("Expected zero likelihood, got", l)
	}
}

func TestDeterminism(tst *testing.T) {
	ped := ninePed(tst)
	config := Config{7: 1, 8: 1, 9: 0}
	first, err := Compute(ped, 0.6180339887, config)
	if err != nil {
		tst.Fatal("Error computing likelihood:", err)
	}
	for i := 0; i < 10; i++ {
		l, err := Compute(ped, 0.6180339887, config)
		if err != nil {
			tst.Fatal("Error computing likelihood:", err)
		}
		if l != first {
			tst.Fatal("likelihood is not deterministic:", first, "vs", l)
		}
	}
}

// Summing a founder hypothesis term over all 3^k configurations of the
// genotyped affected individuals must give exactly one.
func TestProbabilityConservation(tst *testing.T) {
	tau := 0.75
	ped := ninePed(tst)
	net, err := bayes.New(ped, tau)
	if err != nil {
		tst.Fatal("Error building network:", err)
	}
	founders := ped.Founders()
	order := ped.GenotypedAffected()

	for i := range founders {
		sum := 0.0
		for c7 := genotype.State(0); c7 < genotype.NStates; c7++ {
			for c8 := genotype.State(0); c8 < genotype.NStates; c8++ {
				for c9 := genotype.State(0); c9 < genotype.NStates; c9++ {
					config := Config{7: c7, 8: c8, 9: c9}
					term, err := founderTerm(net, founders, i, order, config)
					if err != nil {
						tst.Fatal("Error computing term:", err)
					}
					sum += term
				}
			}
		}
		if math.Abs(sum-1) > smallDiff {
			tst.Errorf("founder %d: configuration probabilities sum to %v", founders[i], sum)
		}
	}
}

// The chain-rule product must not depend on the traversal order over
// the configuration.
func TestOrderIndependence(tst *testing.T) {
	tau := 0.75
	ped := ninePed(tst)
	net, err := bayes.New(ped, tau)
	if err != nil {
		tst.Fatal("Error building network:", err)
	}
	founders := ped.Founders()
	config := Config{7: 1, 8: 1, 9: 0}
	orders := [][]int{
		{7, 8, 9}, {7, 9, 8}, {8, 7, 9},
		{8, 9, 7}, {9, 7, 8}, {9, 8, 7},
	}

	for i := range founders {
		ref, err := founderTerm(net, founders, i, orders[0], config)
		if err != nil {
			tst.Fatal("Error computing term:", err)
		}
		for _, order := range orders[1:] {
			term, err := founderTerm(net, founders, i, order, config)
			if err != nil {
				tst.Fatal("Error computing term:", err)
			}
			if math.Abs(term-ref) > smallDiff {
				tst.Errorf("founder %d order %v: term %v, want %v", founders[i], order, term, ref)
			}
		}
	}
}

func TestInvalidInputs(tst *testing.T) {
	ped := ninePed(tst)
	config := Config{7: 1, 8: 1, 9: 1}

	if _, err := Compute(ped, -0.5, config); err == nil {
		tst.Error("expected error for tau outside [0,1]")
	}
	if _, err := Compute(ped, 0.5, Config{3: 1}); err == nil {
		tst.Error("expected error for a non-genotyped configuration individual")
	}
	if _, err := Compute(ped, 0.5, Config{7: 5}); err == nil {
		tst.Error("expected error for a state outside the domain")
	}
	_, err := Compute(ped, 0.5, Config{100: 1})
	if err == nil {
		tst.Error("expected error for an unknown individual")
	}
	if _, ok := err.(*bayes.InvalidParameterError); !ok {
		tst.Errorf("expected InvalidParameterError, got %T", err)
	}
}

func TestSweep(tst *testing.T) {
	ped := ninePed(tst)
	config := Config{7: 1, 8: 1, 9: 0}
	grid := Grid(0, 1, 11)
	if grid[0] != 0 || grid[10] != 1 || math.Abs(grid[3]-0.3) > smallDiff {
		tst.Fatal("wrong grid:", grid)
	}

	points, err := Sweep(ped, grid, config)
	if err != nil {
		tst.Fatal("Error sweeping:", err)
	}
	if len(points) != len(grid) {
		tst.Fatal("wrong number of points")
	}
	for i, pt := range points {
		if pt.Tau != grid[i] {
			tst.Error("points out of grid order")
		}
		ref := math.Pow(pt.Tau, 4) * (1 - pt.Tau) / 2
		if math.Abs(pt.Likelihood-ref) > smallDiff {
			tst.Errorf("tau=%v: likelihood %v, want %v", pt.Tau, pt.Likelihood, ref)
		}
	}
}

func BenchmarkCompute(b *testing.B) {
	ped := ninePed(b)
	config := Config{7: 1, 8: 1, 9: 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compute(ped, 0.75, config); err != nil {
			b.Fatal(err)
		}
	}
}
