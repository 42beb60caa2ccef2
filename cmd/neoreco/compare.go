package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dasnellings/neoreco/compare"
	"github.com/dasnellings/neoreco/emit"
	"github.com/dasnellings/neoreco/preds"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

func compareUsage(compareFlags *flag.FlagSet) {
	fmt.Print(
		"compare - pair each mutant prediction with its wildtype prediction\n" +
			"\tAppends the wildtype id, peptide, Kd, and the amplitude (wildtype Kd / mutant Kd) to every mutant row.\n\n" +
			"Usage:\n" +
			"  neoreco compare [options] -i predictions.txt -f fastaDir -w wildtype.txt > paired.txt\n\n" +
			"Options:\n")
	compareFlags.PrintDefaults()
}

func runCompare(args []string) {
	var err error
	compareFlags := flag.NewFlagSet("compare", flag.ExitOnError)

	input := compareFlags.String("i", "", "Mutant predictions given to 'neoreco wildtype'.")
	fastaDir := compareFlags.String("f", "", "Directory holding <sample>.reformat.fasta for every sample in -i.")
	wildtypeFile := compareFlags.String("w", "", "Output of 'neoreco wildtype'.")
	maxAffinity := compareFlags.Float64("maxAffinity", preds.DefaultMaxAffinity, "Must match the value given to 'neoreco wildtype'.")
	output := compareFlags.String("o", "stdout", "Output file for paired predictions.")
	plotFile := compareFlags.String("plot", "", "Save a mutant vs wildtype Kd scatter plot to this file (.png, .pdf, .svg).")
	hist := compareFlags.Bool("hist", false, "Print a histogram of log10 amplitudes to stderr.")
	bins := compareFlags.Int("bins", 20, "Number of histogram bins.")

	err = compareFlags.Parse(args)
	exception.PanicOnErr(err)
	compareFlags.Usage = func() { compareUsage(compareFlags) }

	if *input == "" || *fastaDir == "" || *wildtypeFile == "" {
		compareFlags.Usage()
		errExit("\nERROR: must have inputs for -i, -f, and -w")
	}

	records, err := preds.Load(*input, *maxAffinity)
	if err != nil {
		errExit(fmt.Sprintf("ERROR: %s", err))
	}
	candidates, err := emit.Resolve(records, preds.NewSampleIndex(records, *fastaDir))
	if err != nil {
		errExit(fmt.Sprintf("ERROR: %s", err))
	}
	pairs, err := compare.Pairs(records, candidates, fileio.Read(*wildtypeFile))
	if err != nil {
		errExit(fmt.Sprintf("ERROR: %s", err))
	}

	out := fileio.EasyCreate(*output)
	err = compare.Write(out, pairs)
	exception.PanicOnErr(err)
	err = out.Close()
	exception.PanicOnErr(err)

	fmt.Fprint(os.Stderr, compare.Summarize(pairs))
	if *hist {
		fmt.Fprintln(os.Stderr, compare.Histogram(pairs, *bins))
	}
	if *plotFile != "" {
		if err = compare.PlotScatter(pairs, *plotFile); err != nil {
			log.Println("WARNING: no plot written:", err)
		}
	}
}
