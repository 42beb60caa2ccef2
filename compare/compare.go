// Package compare pairs each admitted mutant prediction with the prediction
// for its wildtype counterpart.
package compare

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dasnellings/neoreco/epitope"
	"github.com/dasnellings/neoreco/preds"
)

const na string = "NA"

// Pair joins a mutant record with its wildtype candidate and, when the
// predictor returned one, the wildtype prediction for the same allele.
type Pair struct {
	Mutant    preds.Record
	Candidate epitope.Candidate
	Wildtype  *preds.Record
}

// Amplitude is the wildtype Kd over the mutant Kd. Values above 1 mean the
// mutation improved predicted binding. The second return is false when there
// is no wildtype prediction or the mutant Kd is zero.
func (p Pair) Amplitude() (float64, bool) {
	if p.Wildtype == nil || p.Mutant.Affinity == 0 {
		return 0, false
	}
	return p.Wildtype.Affinity / p.Mutant.Affinity, true
}

type joinKey struct {
	sample  string
	allele  string
	peptide string
}

// Pairs joins records with the aggregated wildtype rows on sample, normalized
// allele, and wildtype peptide. candidates must be aligned with records. When a
// wildtype peptide was predicted more than once for an allele the first row wins.
func Pairs(records []preds.Record, candidates []epitope.Candidate, wildtypeRows []string) ([]Pair, error) {
	if len(records) != len(candidates) {
		return nil, fmt.Errorf("%d records but %d wildtype candidates", len(records), len(candidates))
	}

	wt := make(map[joinKey]*preds.Record, len(wildtypeRows))
	for _, line := range wildtypeRows {
		r, err := preds.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("wildtype prediction: %w", err)
		}
		k := joinKey{sample: r.Sample, allele: preds.NormalizeAllele(r.Allele), peptide: r.Epitope}
		if _, found := wt[k]; !found {
			wt[k] = &r
		}
	}

	ans := make([]Pair, len(records))
	for i := range records {
		ans[i] = Pair{Mutant: records[i], Candidate: candidates[i]}
		ans[i].Wildtype = wt[joinKey{
			sample:  records[i].Sample,
			allele:  preds.NormalizeAllele(records[i].Allele),
			peptide: candidates[i].Seq,
		}]
	}
	return ans, nil
}

// Write prints each pair as the original mutant row followed by the wildtype
// id, wildtype peptide, wildtype Kd, and amplitude.
func Write(w io.Writer, pairs []Pair) error {
	var err error
	var kd, amp string
	for _, p := range pairs {
		kd, amp = na, na
		if p.Wildtype != nil {
			kd = strconv.FormatFloat(p.Wildtype.Affinity, 'f', -1, 64)
		}
		if a, ok := p.Amplitude(); ok {
			amp = strconv.FormatFloat(a, 'f', 4, 64)
		}
		_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Mutant, p.Candidate.ID, p.Candidate.Seq, kd, amp)
		if err != nil {
			return err
		}
	}
	return nil
}
