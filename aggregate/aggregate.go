// Package aggregate attributes raw predictor outputs back to their samples and
// assembles the sample-prefixed wildtype prediction rows.
package aggregate

import (
	"path/filepath"
	"strings"

	"github.com/dasnellings/neoreco/digest"
)

// SampleOf returns the sample encoded as the first '.'-delimited segment of a
// file's base name.
func SampleOf(path string) string {
	return strings.SplitN(filepath.Base(path), ".", 2)[0]
}

// Group returns the samples in first-seen order and the raw outputs owned by
// each one.
func Group(rawOutputs []string) ([]string, map[string][]string) {
	var samples []string
	files := make(map[string][]string)
	for _, f := range rawOutputs {
		sam := SampleOf(f)
		if _, found := files[sam]; !found {
			samples = append(samples, sam)
		}
		files[sam] = append(files[sam], f)
	}
	return samples, files
}

// Aggregate digests each sample's outputs and prefixes every row with the
// sample id. Rows stay grouped by sample.
func Aggregate(rawOutputs []string, d digest.Digester) []string {
	var ans []string
	samples, files := Group(rawOutputs)
	for _, sam := range samples {
		for line := range d.Digest(files[sam], sam, false, 0) {
			ans = append(ans, sam+"\t"+line)
		}
	}
	return ans
}
