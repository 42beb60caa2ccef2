package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dasnellings/neoreco/digest"
	"github.com/dasnellings/neoreco/predictor"
	"github.com/dasnellings/neoreco/preds"
	"github.com/dasnellings/neoreco/wildtype"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

func wildtypeUsage(wildtypeFlags *flag.FlagSet) {
	fmt.Print(
		"wildtype - predict the wildtype counterpart of each admitted mutant epitope\n" +
			"\tMutant predictions at or below -maxAffinity are traced back to their wildtype protein,\n" +
			"\tthe wildtype epitope of the same length is cut out and sent back through netMHCpan.\n\n" +
			"Usage:\n" +
			"  neoreco wildtype [options] -i predictions.txt -f fastaDir -o outDir -c usr_paths.ini > wildtype.txt\n\n" +
			"Options:\n")
	wildtypeFlags.PrintDefaults()
}

func runWildtype(args []string) {
	var err error
	wildtypeFlags := flag.NewFlagSet("wildtype", flag.ExitOnError)

	input := wildtypeFlags.String("i", "", "Tab-delimited mutant predictions, one row per peptide/allele, sample id in the first column.")
	fastaDir := wildtypeFlags.String("f", "", "Directory holding <sample>.reformat.fasta for every sample in -i.")
	outDir := wildtypeFlags.String("o", "", "Output directory. Intermediate files are written to a working directory inside it.")
	config := wildtypeFlags.String("c", "", "usr_paths.ini with the netMHCpan path under [netMHCpan].")
	keep := wildtypeFlags.Bool("d", false, "Keep intermediate files (debug).")
	maxAffinity := wildtypeFlags.Float64("maxAffinity", preds.DefaultMaxAffinity, "Only predictions with binding affinity at or below this value (nM) are reconstructed.")
	continueOnError := wildtypeFlags.Bool("continue", false, "Report failed netMHCpan runs and carry on with the remaining partitions.")
	perSample := wildtypeFlags.Bool("perSample", false, "Predict a wildtype epitope shared by several samples once per sample, against each sample's alleles. By default it is predicted once per run.")
	cacheFile := wildtypeFlags.String("cache", "", "Reuse results from this file when the inputs are unchanged, and store them otherwise.")
	output := wildtypeFlags.String("out", "stdout", "Output file for the sample-prefixed wildtype predictions.")
	verbose := wildtypeFlags.Int("v", 0, "Verbose output by setting to >0.")

	err = wildtypeFlags.Parse(args)
	exception.PanicOnErr(err)
	wildtypeFlags.Usage = func() { wildtypeUsage(wildtypeFlags) }

	if *input == "" || *fastaDir == "" || *outDir == "" || *config == "" {
		wildtypeFlags.Usage()
		errExit("\nERROR: must have inputs for -i, -f, -o, and -c")
	}

	p, err := predictor.LoadConfig(*config)
	if err != nil {
		errExit(fmt.Sprintf("ERROR: %s", err))
	}
	p.Verbose = *verbose

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := wildtype.Run(ctx, wildtype.Options{
		Input:           *input,
		FastaDir:        *fastaDir,
		OutDir:          *outDir,
		Keep:            *keep,
		MaxAffinity:     *maxAffinity,
		ContinueOnError: *continueOnError,
		PerSample:       *perSample,
		CacheFile:       *cacheFile,
		Fingerprint:     p.Fingerprint(),
		Verbose:         *verbose,
	}, p, digest.NetMHCpan{})
	if err != nil {
		errExit(fmt.Sprintf("ERROR: %s", err))
	}

	out := fileio.EasyCreate(*output)
	for _, line := range res.Predictions {
		_, err = fmt.Fprintln(out, line)
		exception.PanicOnErr(err)
	}
	err = out.Close()
	exception.PanicOnErr(err)

	if len(res.Failed) > 0 {
		for _, f := range res.Failed {
			log.Println("WARNING: no wildtype predictions for", f.Sample, "length", f.Len)
		}
		errExit(fmt.Sprintf("ERROR: %d of %d partitions failed", len(res.Failed), len(res.Partitions)))
	}
	if *verbose > 0 {
		log.Printf("wrote %d wildtype predictions for %d mutant predictions\n", len(res.Predictions), len(res.Records))
	}
}
