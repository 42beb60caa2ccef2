package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/dasnellings/neoreco/preds"
	"github.com/guptarohit/asciigraph"
	"github.com/vertgenlab/gonomics/numbers"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Pairs       int
	Predicted   int // pairs with a wildtype prediction
	Improved    int // amplitude > 1
	MeanLog10   float64
	MedianLog10 float64
	ByAllele    map[string]int // predicted pairs per normalized allele
}

// log10Amplitudes returns the sorted log10 amplitudes of all predicted pairs.
func log10Amplitudes(pairs []Pair) []float64 {
	var ans []float64
	for _, p := range pairs {
		if a, ok := p.Amplitude(); ok && a > 0 {
			ans = append(ans, math.Log10(a))
		}
	}
	slices.Sort(ans)
	return ans
}

func Summarize(pairs []Pair) Summary {
	ans := Summary{Pairs: len(pairs), ByAllele: make(map[string]int)}
	for _, p := range pairs {
		a, ok := p.Amplitude()
		if !ok {
			continue
		}
		ans.Predicted++
		ans.ByAllele[preds.NormalizeAllele(p.Mutant.Allele)]++
		if a > 1 {
			ans.Improved++
		}
	}

	x := log10Amplitudes(pairs)
	if len(x) == 0 {
		ans.MeanLog10, ans.MedianLog10 = math.NaN(), math.NaN()
		return ans
	}
	ans.MeanLog10 = stat.Mean(x, nil)
	ans.MedianLog10 = stat.Quantile(0.5, stat.Empirical, x, nil)
	return ans
}

// ImprovedFraction is the share of predicted pairs whose mutant binds better
// than the wildtype.
func (s Summary) ImprovedFraction() float64 {
	if s.Predicted == 0 {
		return math.NaN()
	}
	return float64(s.Improved) / float64(s.Predicted)
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pairs:\t%d\n", s.Pairs)
	fmt.Fprintf(&b, "With wildtype prediction:\t%d\n", s.Predicted)
	fmt.Fprintf(&b, "Mutant binds better:\t%d (%.3f)\n", s.Improved, s.ImprovedFraction())
	fmt.Fprintf(&b, "Mean log10 amplitude:\t%.3f\n", s.MeanLog10)
	fmt.Fprintf(&b, "Median log10 amplitude:\t%.3f\n", s.MedianLog10)
	alleles := maps.Keys(s.ByAllele)
	slices.Sort(alleles)
	for _, a := range alleles {
		fmt.Fprintf(&b, "%s:\t%d\n", a, s.ByAllele[a])
	}
	return b.String()
}

// HistogramCounts bins the log10 amplitudes of the predicted pairs into bins
// equal-width bins spanning the observed range.
func HistogramCounts(pairs []Pair, bins int) []float64 {
	x := log10Amplitudes(pairs)
	if len(x) == 0 {
		return nil
	}
	bins = numbers.Max(bins, 1)
	// the last divider must be strictly above the largest value
	dividers := floats.Span(make([]float64, bins+1), x[0], x[len(x)-1]+1e-9)
	return stat.Histogram(nil, dividers, x, nil)
}

// Histogram renders HistogramCounts for the terminal. It returns an empty
// string when no pair has a wildtype prediction.
func Histogram(pairs []Pair, bins int) string {
	counts := HistogramCounts(pairs, bins)
	if len(counts) == 0 {
		return ""
	}
	x := log10Amplitudes(pairs)
	return asciigraph.Plot(counts,
		asciigraph.Height(10),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("log10(wildtype Kd / mutant Kd) from %.2f to %.2f", x[0], x[len(x)-1])))
}
