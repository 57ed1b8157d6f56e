package likelihood

import (
	"math"

	"github.com/gonum/mathext"

	"github.com/SFUStatgen/TJ2022/bayes"
	"github.com/SFUStatgen/TJ2022/pedigree"
)

// golden is the inverse golden ratio used by the section search.
const golden = 0.6180339887498949

// MaximizeTau returns the tau in [0, 1] maximizing the likelihood of
// the configuration, located by golden-section search down to the
// given width tolerance. The single-introduction likelihood is
// unimodal in tau for carrier/non-carrier configurations, so the
// section search converges to the global maximum.
func MaximizeTau(ped *pedigree.Pedigree, config Config, tol float64) (tau, lik float64, err error) {
	if tol <= 0 {
		return 0, 0, &bayes.InvalidParameterError{Msg: "tolerance must be positive"}
	}
	a, b := 0.0, 1.0
	x1 := b - golden*(b-a)
	x2 := a + golden*(b-a)
	f1, err := Compute(ped, x1, config)
	if err != nil {
		return 0, 0, err
	}
	f2, err := Compute(ped, x2, config)
	if err != nil {
		return 0, 0, err
	}
	for b-a > tol {
		if f1 < f2 {
			a, x1, f1 = x1, x2, f2
			x2 = a + golden*(b-a)
			if f2, err = Compute(ped, x2, config); err != nil {
				return 0, 0, err
			}
		} else {
			b, x2, f2 = x2, x1, f1
			x1 = b - golden*(b-a)
			if f1, err = Compute(ped, x1, config); err != nil {
				return 0, 0, err
			}
		}
	}
	tau = (a + b) / 2
	lik, err = Compute(ped, tau, config)
	return tau, lik, err
}

// ProfileInterval returns the profile likelihood confidence interval
// for tau at the given level (e.g. 0.95): all tau whose log-likelihood
// lies within half the chi-square(1df) quantile of the maximum. The
// crossing points are located by bisection; a bound equal to 0 or 1
// means the cutoff is not crossed on that side.
func ProfileInterval(ped *pedigree.Pedigree, config Config, level, tol float64) (lo, hi float64, err error) {
	if level <= 0 || level >= 1 {
		return 0, 0, &bayes.InvalidParameterError{Msg: "confidence level must be in (0,1)"}
	}
	tauHat, lmax, err := MaximizeTau(ped, config, tol)
	if err != nil {
		return 0, 0, err
	}
	if lmax == 0 {
		return 0, 0, &bayes.InvalidParameterError{Msg: "configuration has zero likelihood everywhere"}
	}
	cut := math.Log(lmax) - chi2Quantile(level, 1)/2

	logL := func(t float64) (float64, error) {
		l, err := Compute(ped, t, config)
		return math.Log(l), err
	}

	lo, err = crossing(logL, 0, tauHat, cut, tol, true)
	if err != nil {
		return 0, 0, err
	}
	hi, err = crossing(logL, tauHat, 1, cut, tol, false)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// crossing bisects [a, b] for the point where logL crosses cut. The
// log-likelihood is above the cutoff at the tauHat end of the
// interval; when it stays above at the far end too, the boundary is
// returned.
func crossing(logL func(float64) (float64, error), a, b, cut, tol float64, lower bool) (float64, error) {
	far := a
	if !lower {
		far = b
	}
	lFar, err := logL(far)
	if err != nil {
		return 0, err
	}
	if lFar >= cut {
		return far, nil
	}
	for b-a > tol {
		mid := (a + b) / 2
		l, err := logL(mid)
		if err != nil {
			return 0, err
		}
		if (l >= cut) == lower {
			b = mid
		} else {
			a = mid
		}
	}
	return (a + b) / 2, nil
}

// chi2Quantile returns x with P(X<=x)=p for a chi-square distribution
// with v degrees of freedom, by bisection on the regularized
// incomplete gamma CDF.
func chi2Quantile(p, v float64) float64 {
	lo, hi := 0.0, 1.0
	for mathext.GammaInc(v/2, hi/2) < p {
		hi *= 2
	}
	for hi-lo > 1e-12 {
		mid := (lo + hi) / 2
		if mathext.GammaInc(v/2, mid/2) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
