// Package wildtype runs the full wildtype reconstruction pass: filter mutant
// predictions, emit the matching wildtype epitopes, predict them, and gather
// the wildtype predictions per sample.
package wildtype

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strconv"

	"github.com/dasnellings/neoreco/aggregate"
	"github.com/dasnellings/neoreco/cache"
	"github.com/dasnellings/neoreco/digest"
	"github.com/dasnellings/neoreco/emit"
	"github.com/dasnellings/neoreco/epitope"
	"github.com/dasnellings/neoreco/predictor"
	"github.com/dasnellings/neoreco/preds"
	"github.com/dasnellings/neoreco/workdir"
)

type Options struct {
	Input           string  // mutant predictions
	FastaDir        string  // per-sample sequence archives
	OutDir          string  // parent of the working directory
	Keep            bool    // keep intermediate files
	MaxAffinity     float64 // admission threshold in nM
	ContinueOnError bool    // carry on past failed partitions
	PerSample       bool    // predict repeated wildtype candidates once per sample instead of once per run
	CacheFile       string  // empty disables caching
	Fingerprint     string  // predictor configuration, part of the cache key
	Verbose         int
}

// PartitionError reports a predictor failure for one (sample, length) file.
type PartitionError struct {
	Sample string
	Len    int
	Err    error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("prediction failed for sample %s length %d: %v", e.Sample, e.Len, e.Err)
}

func (e *PartitionError) Unwrap() error {
	return e.Err
}

type Result struct {
	Records     []preds.Record
	Candidates  []epitope.Candidate // aligned with Records
	Partitions  []emit.Partition
	Predictions []string // sample-prefixed wildtype predictions
	Failed      []*PartitionError
	Cached      bool
}

// Run performs one pass. Input, archive, and extraction problems are fatal.
// Predictor failures abort the pass unless ContinueOnError is set, in which
// case the failed partitions are reported in Result.Failed. Cancellation and
// deadline expiry are always fatal.
func Run(ctx context.Context, opt Options, p predictor.Predictor, d digest.Digester) (*Result, error) {
	if opt.MaxAffinity <= 0 {
		opt.MaxAffinity = preds.DefaultMaxAffinity
	}

	records, err := preds.Load(opt.Input, opt.MaxAffinity)
	if err != nil {
		return nil, err
	}
	if opt.Verbose > 0 {
		log.Printf("%d predictions at or below %.1f nM\n", len(records), opt.MaxAffinity)
	}

	var key string
	if opt.CacheFile != "" {
		key, err = cache.Key(opt.Input, opt.FastaDir, opt.Fingerprint,
			strconv.FormatFloat(opt.MaxAffinity, 'f', -1, 64), strconv.FormatBool(opt.PerSample))
		if err != nil {
			return nil, err
		}
		if res, ok := fromCache(opt.CacheFile, key, records); ok {
			return res, nil
		}
	}

	idx := preds.NewSampleIndex(records, opt.FastaDir)
	dir, err := workdir.Acquire(opt.OutDir, opt.Keep)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := dir.Release(); rerr != nil {
			log.Println("WARNING: could not remove working directory:", rerr)
		}
	}()

	scope := emit.RunScope
	if opt.PerSample {
		scope = emit.SampleScope
	}
	ans := &Result{Records: records}
	ans.Partitions, ans.Candidates, err = emit.Emit(records, idx, dir.Path, scope)
	if err != nil {
		return nil, err
	}

	var rawOutputs []string
	var out string
	for _, part := range ans.Partitions {
		if part.Entries == 0 {
			continue
		}
		if opt.Verbose > 0 {
			log.Printf("predicting %d wildtype epitopes of length %d for %s\n", part.Entries, part.Len, part.Sample)
		}
		out, err = p.Predict(ctx, predictor.Request{
			Dir:     dir.Path,
			Sample:  part.Sample,
			Files:   map[int]string{part.Len: part.Path},
			Alleles: idx.NormalizedAlleles(part.Sample),
			Lengths: []int{part.Len},
		})
		if err != nil {
			perr := &PartitionError{Sample: part.Sample, Len: part.Len, Err: err}
			// an expired or cancelled context ends the pass regardless of ContinueOnError
			if !opt.ContinueOnError || ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, perr
			}
			log.Println("WARNING:", perr)
			ans.Failed = append(ans.Failed, perr)
			continue
		}
		rawOutputs = append(rawOutputs, out)
	}

	ans.Predictions = aggregate.Aggregate(rawOutputs, d)

	// partial results are never cached
	if opt.CacheFile != "" && len(ans.Failed) == 0 {
		cache.Write(opt.CacheFile, key, cache.Result{Candidates: ans.Candidates, Predictions: ans.Predictions})
	}
	return ans, nil
}

func fromCache(filename, key string, records []preds.Record) (*Result, bool) {
	c, err := cache.Read(filename, key)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case errors.Is(err, cache.ErrStale):
			log.Println("WARNING: cache is stale, recomputing:", err)
		default:
			log.Println("WARNING: ignoring unreadable cache:", err)
		}
		return nil, false
	}
	if len(c.Candidates) != len(records) {
		log.Printf("WARNING: cache holds %d candidates for %d predictions, recomputing\n", len(c.Candidates), len(records))
		return nil, false
	}
	log.Println("using cached wildtype predictions from", filename)
	return &Result{Records: records, Candidates: c.Candidates, Predictions: c.Predictions, Cached: true}, true
}
