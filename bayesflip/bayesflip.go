/*
Bayesflip estimates the success probability of a coin from simulated
flips using a Metropolis-Hastings sampler. It compares an
uninformative uniform prior with an informative beta prior.

The basic usage looks like this:

	bayesflip sample -n 10 -p 0.5

, this will simulate 10 flips of a fair coin and sample the posterior
of the success probability under the uniform prior.

To use Beta(20, 20) prior, store the run and plot the posterior:

	bayesflip sample -n 10 -p 1 --prior beta --plot posterior.png --db runs.db --key fair

Stored runs can be inspected later:

	bayesflip list --db runs.db
	bayesflip show --db runs.db --key fair
	bayesflip delete --db runs.db --key fair

Use "-" as the plot file name to write svg to the standard output.

To see all the options run:

	bayesflip --help
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("bayesflip")
var formatter = logging.MustStringFormatter(`%{message}`)

// stdout receives plots written to "-" and run lists.
var stdout io.Writer = os.Stdout

// modules lists all the loggers.
var modules = []string{"bayesflip", "mcmc", "coin", "optimize", "checkpoint"}

// command-line options
var (
	// application
	app = kingpin.New("bayesflip", "Bayesian inference for a coin flip with Metropolis-Hastings").Version(version)

	// technical
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")

	// sampling
	sampleCmd = app.Command("sample", "simulate coin flips and sample the posterior")

	nObs  = sampleCmd.Flag("n", "number of coin flips to simulate").Default("10").Int()
	trueP = sampleCmd.Flag("p", "success probability used for the simulation").Default("0.5").Float64()

	prior      = sampleCmd.Flag("prior", "prior (uniform or beta)").Default("uniform").Enum("uniform", "beta")
	priorAlpha = sampleCmd.Flag("alpha", "first beta prior shape parameter").Default("20").Float64()
	priorBeta  = sampleCmd.Flag("beta", "second beta prior shape parameter").Default("20").Float64()

	iterations = sampleCmd.Flag("iter", "number of iterations").Default("10000").Int()
	sd         = sampleCmd.Flag("sd", "proposal standard deviation").Default("0.1").Float64()
	nChains    = sampleCmd.Flag("chains", "number of independent chains").Default("1").Int()
	burnin     = sampleCmd.Flag("burnin", "number of samples to discard from every chain before summarizing").Default("0").Int()
	report     = sampleCmd.Flag("report", "report every N iterations").Default("10").Int()
	accept     = sampleCmd.Flag("accept", "report acceptance rate every N iterations").Default("200").Int()
	seed       = sampleCmd.Flag("seed", "random generator seed, default time based").Default("-1").Int64()

	method  = sampleCmd.Flag("map", "posterior mode search method (lbfgsb, simplex or none)").Default("simplex").Enum("lbfgsb", "simplex", "none")
	mapIter = sampleCmd.Flag("mapiter", "maximum number of posterior mode search iterations").Default("1000").Int()

	// input/output
	outF   = sampleCmd.Flag("out", "write sampled traces to a file").String()
	trajF  = sampleCmd.Flag("traj", "write sampler trajectory (first chain) to a file").String()
	plotF  = sampleCmd.Flag("plot", "plot posterior histogram to a file (png, svg or pdf), - for svg on stdout").String()
	bins   = sampleCmd.Flag("bins", "number of histogram bins").Default("50").Int()
	jsonF  = sampleCmd.Flag("json", "write json output to a file").String()
	dbF    = sampleCmd.Flag("db", "store the run in a bolt database").String()
	runKey = sampleCmd.Flag("key", "run name in the database").Default("last").String()

	// stored runs
	showCmd   = app.Command("show", "show a stored run")
	showDbF   = showCmd.Flag("db", "bolt database").Required().ExistingFile()
	showKey   = showCmd.Flag("key", "run name").Default("last").String()
	showPlotF = showCmd.Flag("plot", "plot posterior histogram to a file, - for svg on stdout").String()
	showJSONF = showCmd.Flag("json", "write json output to a file").String()

	listCmd = app.Command("list", "list stored runs")
	listDbF = listCmd.Flag("db", "bolt database").Required().ExistingFile()

	deleteCmd = app.Command("delete", "delete a stored run")
	deleteDbF = deleteCmd.Flag("db", "bolt database").Required().ExistingFile()
	deleteKey = deleteCmd.Flag("key", "run name").Required().String()
)

// setupLogging configures the logging backend and level.
func setupLogging() (closer func()) {
	logging.SetFormatter(formatter)

	closer = func() {}
	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		closer = func() { f.Close() }
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range modules {
		logging.SetLevel(level, m)
	}
	return
}

// writeJSON writes v to a file in json format.
func writeJSON(fn string, v interface{}) {
	j, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error(err)
		return
	}
	log.Debug(string(j))
	f, err := os.Create(fn)
	if err != nil {
		log.Error("Error creating json output file:", err)
		return
	}
	defer f.Close()
	if _, err := f.Write(j); err != nil {
		log.Error("Error writing json output file:", err)
	}
}

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	closer := setupLogging()
	defer closer()

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	switch cmd {
	case sampleCmd.FullCommand():
		startTime := time.Now()
		if *seed == -1 {
			*seed = time.Now().UnixNano()
			log.Debug("Random seed from time")
		}
		log.Infof("Random seed=%v", *seed)
		log.Infof("Using threads: %d.", runtime.GOMAXPROCS(0))

		summary, err := runSample(newSampleSettings())
		if err != nil {
			log.Fatal(err)
		}
		summary.Version = version
		summary.CommandLine = os.Args
		summary.Time = time.Since(startTime).Seconds()
		log.Noticef("Running time: %v", time.Since(startTime))

		if *jsonF != "" {
			writeJSON(*jsonF, summary)
		}
	case showCmd.FullCommand():
		summary, err := show(*showDbF, *showKey, *showPlotF)
		if err != nil {
			log.Fatal(err)
		}
		if *showJSONF != "" {
			writeJSON(*showJSONF, summary)
		}
	case listCmd.FullCommand():
		if err := list(*listDbF); err != nil {
			log.Fatal(err)
		}
	case deleteCmd.FullCommand():
		if err := deleteRun(*deleteDbF, *deleteKey); err != nil {
			log.Fatal(err)
		}
	}
}
