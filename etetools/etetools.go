/*

Etetools parses a directory of ETE3 evol results (CodeML output, one
subdirectory per gene, one model subdirectory per fitted model) and
writes a series of summary tables: per-category model summaries, a
likelihood-ratio test table, a per-branch rate table and a table of
sites under positive selection (BEB).

The basic usage looks like this:

	etetools results/ tables/

To restrict the parsed models:

	etetools --models M0 --models M7 --models M8 results/ tables/

*/
package main

import (
	"fmt"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	"etetools/results"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("etetools")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("etetools", "ETE3 evol output-to-table converter").Version(version)

	// input/output
	input  = app.Arg("input", "directory with ETE3 evol results").Required().ExistingDir()
	outdir = app.Arg("outdir", "output directory (created if absent)").Required().String()

	// models
	onlyModels = app.Flag("models", "only parse results for the given models (repeatable)").Strings()

	// logging
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("info").
		Enum("critical", "error", "warning", "notice", "info", "debug")
)

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
	logging.SetLevel(level, "etetools")
	logging.SetLevel(level, "results")
	logging.SetLevel(level, "codeml")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if err := os.MkdirAll(*outdir, 0777); err != nil {
		log.Fatal("Error creating output directory:", err)
	}

	corpus, err := results.ProcessCorpus(*input, *onlyModels)
	if err != nil {
		log.Fatal(err)
	}

	if err := corpus.Write(*outdir); err != nil {
		log.Fatal(err)
	}

	log.Notice("Finished")
}
