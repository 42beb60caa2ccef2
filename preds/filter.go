package preds

import (
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// Filter parses lines and keeps the records binding at or below maxAffinity nM.
// A row that cannot be parsed aborts the whole filter.
func Filter(lines []string, maxAffinity float64) ([]Record, error) {
	var ans []Record
	var r Record
	var err error
	for _, line := range lines {
		r, err = ParseLine(line)
		if err != nil {
			return nil, err
		}
		if r.Affinity <= maxAffinity {
			ans = append(ans, r)
		}
	}
	return ans, nil
}

// Load reads the prediction file (no header) and filters it on binding affinity.
func Load(filename string, maxAffinity float64) ([]Record, error) {
	file := fileio.EasyOpen(filename)
	var lines []string
	var line string
	var done bool
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	err := file.Close()
	exception.PanicOnErr(err)
	return Filter(lines, maxAffinity)
}
