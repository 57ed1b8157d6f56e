/*

Pedlik estimates the likelihood of the rare-variant transmission
probability tau for an extended pedigree, given the carrier status of
its genotyped disease-affected members and assuming exactly one
founder introduced the variant.

The basic usage looks like this:

	pedlik family.ped 7=1,8=1,9=0

, this evaluates the likelihood at the default tau=0.5.

Likelihood curve over a grid, with a plot:

	pedlik -grid 101 -plot curve.png family.ped 7=1,8=1,9=0

Maximum likelihood estimate of tau with a profile confidence interval:

	pedlik -mle family.ped 7=1,8=1,9=0

To see all the options run:

	pedlik -h

*/
package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"github.com/SFUStatgen/TJ2022/checkpoint"
	"github.com/SFUStatgen/TJ2022/likelihood"
	"github.com/SFUStatgen/TJ2022/pedigree"
	"github.com/SFUStatgen/TJ2022/pedio"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("pedlik")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("pedlik", "pedigree rare-variant transmission likelihood").Version(version)

	// input
	pedFileName  = app.Arg("pedigree", "pedigree file (id father mother sex affected dna)").Required().ExistingFile()
	configString = app.Arg("configuration", "carrier configuration of the genotyped affected individuals, e.g. 7=1,8=1,9=0").Required().String()

	// evaluation
	tau     = app.Flag("tau", "transmission probability to evaluate").Default("0.5").Float64()
	gridN   = app.Flag("grid", "evaluate the likelihood on a grid of N tau values").Default("0").Int()
	gridMin = app.Flag("gridmin", "lower end of the tau grid").Default("0").Float64()
	gridMax = app.Flag("gridmax", "upper end of the tau grid").Default("1").Float64()

	// estimation
	mle     = app.Flag("mle", "estimate tau by maximum likelihood").Bool()
	ciLevel = app.Flag("ci", "profile likelihood confidence level for the estimate").Default("0.95").Float64()
	tol     = app.Flag("tol", "tau tolerance for the estimation searches").Default("1e-6").Float64()

	// checkpoint
	checkpointFileName = app.Flag("checkpoint", "checkpoint file for sweep resume").String()
	checkpointSeconds  = app.Flag("checkpointseconds", "checkpoint every N seconds").Default("30").Float64()

	// technical
	nThreads   = app.Flag("nt", "number of threads to use").Int()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// input/output
	plotFileName = app.Flag("plot", "write the likelihood curve to a PNG file (needs -grid)").String()
	outLogF      = app.Flag("log", "write log to a file").String()
	logLevel     = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()
)

func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{}

	pedBytes, err := os.ReadFile(*pedFileName)
	if err != nil {
		log.Fatal(err)
	}
	members, err := pedio.ParsePed(bytes.NewReader(pedBytes))
	if err != nil {
		log.Fatal("Error reading pedigree:", err)
	}
	ped, err := pedigree.New(members)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Read pedigree of %d individuals, %d founders, %d genotyped affected",
		ped.NInd(), len(ped.Founders()), len(ped.GenotypedAffected()))

	config, err := pedio.ParseConfig(*configString)
	if err != nil {
		log.Fatal("Error reading configuration:", err)
	}

	if *gridN > 0 {
		grid := likelihood.Grid(*gridMin, *gridMax, *gridN)
		ckpt := openCheckpoint(pedBytes, grid)
		points, err := runSweep(ped, grid, config, ckpt)
		if err != nil {
			log.Fatal(err)
		}
		summary.Sweep = points
		for _, pt := range points {
			log.Noticef("tau=%f\tlikelihood=%g", pt.Tau, pt.Likelihood)
		}
		if *plotFileName != "" {
			if err := plotCurve(points, *plotFileName); err != nil {
				log.Error("Error writing plot:", err)
			}
		}
	} else {
		l, err := likelihood.Compute(ped, *tau, config)
		if err != nil {
			log.Fatal(err)
		}
		log.Noticef("tau=%f\tlikelihood=%g", *tau, l)
		summary.Tau = *tau
		summary.Likelihood = l
		if *plotFileName != "" {
			log.Warning("No grid requested, skipping plot")
		}
	}

	if *mle {
		tauHat, lmax, err := likelihood.MaximizeTau(ped, config, *tol)
		if err != nil {
			log.Fatal(err)
		}
		lo, hi, err := likelihood.ProfileInterval(ped, config, *ciLevel, *tol)
		if err != nil {
			log.Fatal(err)
		}
		log.Noticef("tauMLE=%f\tmaxLikelihood=%g\tCI%.0f%%=[%f, %f]",
			tauHat, lmax, *ciLevel*100, lo, hi)
		summary.TauMLE = tauHat
		summary.MaxLikelihood = lmax
		summary.CILevel = *ciLevel
		summary.CILower = lo
		summary.CIUpper = hi
	}

	deltaT := time.Since(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()

	return summary
}

// openCheckpoint opens the checkpoint database if requested. The key
// digests the pedigree bytes, the configuration and the grid, so a
// checkpoint never resumes against different inputs.
func openCheckpoint(pedBytes []byte, grid []float64) *checkpoint.SweepIO {
	if *checkpointFileName == "" {
		return nil
	}
	db, err := bolt.Open(*checkpointFileName, 0666, nil)
	if err != nil {
		log.Fatal("Error opening checkpoint file:", err)
	}
	h := sha256.New()
	h.Write(pedBytes)
	fmt.Fprintf(h, "|%s|%v", *configString, grid)
	return checkpoint.NewSweepIO(db, h.Sum(nil), *checkpointSeconds)
}

// runSweep evaluates the likelihood over the grid. Without a
// checkpoint the points are computed in parallel; with one they are
// computed in grid order so the stored prefix can be resumed.
func runSweep(ped *pedigree.Pedigree, grid []float64, config likelihood.Config, ckpt *checkpoint.SweepIO) ([]likelihood.Point, error) {
	if ckpt == nil {
		return likelihood.Sweep(ped, grid, config)
	}

	points := make([]likelihood.Point, 0, len(grid))
	if data, err := ckpt.Load(); err != nil {
		log.Error("Error loading checkpoint:", err)
	} else if data != nil && len(data.Points) <= len(grid) {
		points = append(points, data.Points...)
		log.Noticef("Resuming sweep from point %d/%d", len(points), len(grid))
	}

	for i := len(points); i < len(grid); i++ {
		l, err := likelihood.Compute(ped, grid[i], config)
		if err != nil {
			return nil, err
		}
		points = append(points, likelihood.Point{Tau: grid[i], Likelihood: l})
		if ckpt.Old() {
			ckpt.Save(&checkpoint.SweepData{Points: points})
		}
	}
	ckpt.Save(&checkpoint.SweepData{Points: points, Done: true})
	return points, nil
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "pedlik")
	logging.SetLevel(level, "likelihood")
	logging.SetLevel(level, "bayes")
	logging.SetLevel(level, "checkpoint")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	runtime.GOMAXPROCS(*nThreads)
	effectiveNThreads := runtime.GOMAXPROCS(0)
	log.Infof("Using threads: %d.", effectiveNThreads)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	summary := run()
	summary.NThreads = effectiveNThreads
	summary.Version = version
	summary.CommandLine = os.Args

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}
