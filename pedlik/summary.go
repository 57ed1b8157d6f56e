package main

import "github.com/SFUStatgen/TJ2022/likelihood"

// RunSummary stores the results of a single pedlik invocation.
type RunSummary struct {
	// Version stores pedlik version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// NThreads is the number of processes used.
	NThreads int `json:"nThreads"`
	// Tau is the transmission probability of a single evaluation.
	Tau float64 `json:"tau,omitempty"`
	// Likelihood is the likelihood at Tau.
	Likelihood float64 `json:"likelihood,omitempty"`
	// Sweep holds the grid evaluation, in grid order.
	Sweep []likelihood.Point `json:"sweep,omitempty"`
	// TauMLE is the maximum likelihood estimate of tau.
	TauMLE float64 `json:"tauMLE,omitempty"`
	// MaxLikelihood is the likelihood at TauMLE.
	MaxLikelihood float64 `json:"maxLikelihood,omitempty"`
	// CILevel is the requested profile confidence level.
	CILevel float64 `json:"ciLevel,omitempty"`
	// CILower and CIUpper are the profile interval bounds for tau.
	CILower float64 `json:"ciLower,omitempty"`
	CIUpper float64 `json:"ciUpper,omitempty"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}
