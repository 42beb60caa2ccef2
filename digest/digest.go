// Package digest flattens raw netMHCpan output into tab-delimited rows.
package digest

import (
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// DefaultMaxAffinity is used when filtering is requested without a threshold.
const DefaultMaxAffinity float64 = 500.0

// Digester turns a sample's raw predictor outputs into tab-delimited rows.
type Digester interface {
	Digest(files []string, sample string, filter bool, maxAffinity float64) <-chan string
}

// NetMHCpan digests the plain text output of netMHCpan -BA.
type NetMHCpan struct{}

func (NetMHCpan) Digest(files []string, sample string, filter bool, maxAffinity float64) <-chan string {
	ans := make(chan string, 1000)
	if filter && maxAffinity <= 0 {
		maxAffinity = DefaultMaxAffinity
	}
	go digest(files, filter, maxAffinity, ans)
	return ans
}

func digest(files []string, filter bool, maxAffinity float64, c chan<- string) {
	var line string
	var done bool
	var words []string
	for _, f := range files {
		file := fileio.EasyOpen(f)
		for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
			words = strings.Fields(line)
			if !isPrediction(words) {
				continue
			}
			if filter && affinity(words) > maxAffinity {
				continue
			}
			c <- strings.Join(words, "\t")
		}
		err := file.Close()
		exception.PanicOnErr(err)
	}
	close(c)
}

// predictions are the table rows: a numeric position followed by an allele and
// the full Peptide..%Rank block
func isPrediction(words []string) bool {
	if len(words) < 14 || !strings.HasPrefix(words[1], "HLA-") {
		return false
	}
	_, err := strconv.Atoi(words[0])
	return err == nil
}

// affinity reads Aff(nM), the 13th column of a prediction row.
func affinity(words []string) float64 {
	ans, err := strconv.ParseFloat(words[12], 64)
	exception.PanicOnErr(err)
	return ans
}
