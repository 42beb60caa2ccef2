package main

import (
	"flag"
	"fmt"

	"github.com/dasnellings/neoreco/workdir"
	"github.com/vertgenlab/gonomics/exception"
)

func cleanUsage(cleanFlags *flag.FlagSet) {
	fmt.Print(
		"clean - remove the working directory left in an output directory\n\n" +
			"Usage:\n" +
			"  neoreco clean -o outDir\n\n" +
			"Options:\n")
	cleanFlags.PrintDefaults()
}

func runClean(args []string) {
	var err error
	cleanFlags := flag.NewFlagSet("clean", flag.ExitOnError)
	outDir := cleanFlags.String("o", "", "Output directory given to 'neoreco wildtype'.")

	err = cleanFlags.Parse(args)
	exception.PanicOnErr(err)
	cleanFlags.Usage = func() { cleanUsage(cleanFlags) }

	if *outDir == "" {
		cleanFlags.Usage()
		errExit("\nERROR: must have input for -o")
	}

	if err = workdir.Clean(*outDir); err != nil {
		errExit(fmt.Sprintf("ERROR: %s", err))
	}
}
