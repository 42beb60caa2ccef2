// Package predictor runs the external MHC binding predictor on wildtype
// candidate files.
package predictor

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/fileio"
)

// Request describes one predictor invocation.
type Request struct {
	Dir     string
	Sample  string
	Files   map[int]string // epitope length -> fasta file
	Alleles []string       // predictor syntax, e.g. HLA-A02:01
	Lengths []int
}

// Predictor returns the path of the raw output produced for a request.
type Predictor interface {
	Predict(ctx context.Context, req Request) (string, error)
}

// OutputName returns the base name of the raw output file for a request.
// The sample leads the name so outputs can be attributed back to it.
func OutputName(sample string, lengths []int) string {
	words := make([]string, len(lengths))
	for i := range lengths {
		words[i] = strconv.Itoa(lengths[i])
	}
	return fmt.Sprintf("%s.wildtype.epitopes.%s.txt", sample, strings.Join(words, "_"))
}

// NetMHCpan runs netMHCpan in binding affinity mode, once per epitope length.
type NetMHCpan struct {
	Bin     string
	Verbose int
}

func (n NetMHCpan) Args(alleles []string, length int, file string) []string {
	return []string{"-BA", "-a", strings.Join(alleles, ","), "-l", strconv.Itoa(length), "-f", file}
}

func (n NetMHCpan) Predict(ctx context.Context, req Request) (string, error) {
	if len(req.Alleles) == 0 {
		return "", fmt.Errorf("no alleles for sample %s", req.Sample)
	}
	outfile := filepath.Join(req.Dir, OutputName(req.Sample, req.Lengths))
	out := fileio.EasyCreate(outfile)

	var stderr bytes.Buffer
	var err error
	for _, l := range req.Lengths {
		file, found := req.Files[l]
		if !found {
			err = fmt.Errorf("no candidate file for length %d of sample %s", l, req.Sample)
			break
		}
		cmd := exec.CommandContext(ctx, n.Bin, n.Args(req.Alleles, l, file)...)
		cmd.Stdout = out
		stderr.Reset()
		cmd.Stderr = &stderr
		if n.Verbose > 0 {
			log.Println("running", cmd.String())
		}
		if err = cmd.Run(); err != nil {
			if ctx.Err() != nil {
				err = fmt.Errorf("%s interrupted on %s: %w", filepath.Base(n.Bin), file, ctx.Err())
				break
			}
			err = fmt.Errorf("%s failed on %s: %w: %s", filepath.Base(n.Bin), file, err, strings.TrimSpace(stderr.String()))
			break
		}
	}

	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	return outfile, nil
}

// Fingerprint identifies the predictor setup for result caching.
func (n NetMHCpan) Fingerprint() string {
	return "netMHCpan\t" + n.Bin + "\t" + strings.Join(n.Args([]string{"<alleles>"}, 0, "<fasta>"), " ")
}
