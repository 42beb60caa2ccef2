package preds

import (
	"path/filepath"

	"golang.org/x/exp/slices"
)

// ArchiveSuffix is appended to a sample id to name its sequence archive.
const ArchiveSuffix string = ".reformat.fasta"

// SampleIndex holds, for each sample, the distinct alleles observed and the
// path to the sample's sequence archive. Samples and alleles keep the order in
// which they were first seen in the input.
type SampleIndex struct {
	Samples  []string
	Alleles  map[string][]string
	Archives map[string]string
}

func NewSampleIndex(records []Record, fastaDir string) SampleIndex {
	ans := SampleIndex{
		Alleles:  make(map[string][]string),
		Archives: make(map[string]string),
	}
	for i := range records {
		sam := records[i].Sample
		if _, found := ans.Archives[sam]; !found {
			ans.Samples = append(ans.Samples, sam)
			ans.Archives[sam] = filepath.Join(fastaDir, sam+ArchiveSuffix)
		}
		if !slices.Contains(ans.Alleles[sam], records[i].Allele) {
			ans.Alleles[sam] = append(ans.Alleles[sam], records[i].Allele)
		}
	}
	return ans
}

// NormalizedAlleles returns the sample's alleles in predictor syntax.
func (idx SampleIndex) NormalizedAlleles(sample string) []string {
	alleles := idx.Alleles[sample]
	ans := make([]string, len(alleles))
	for i := range alleles {
		ans[i] = NormalizeAllele(alleles[i])
	}
	return ans
}

// BySample groups records by sample in index order.
func (idx SampleIndex) BySample(records []Record) map[string][]Record {
	ans := make(map[string][]Record, len(idx.Samples))
	for i := range records {
		ans[records[i].Sample] = append(ans[records[i].Sample], records[i])
	}
	return ans
}
