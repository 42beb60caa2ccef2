// Package emit writes deduplicated wildtype candidates to one fasta file per
// sample and epitope length.
package emit

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/dasnellings/neoreco/archive"
	"github.com/dasnellings/neoreco/epitope"
	"github.com/dasnellings/neoreco/preds"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"
)

const lineWidth int = 60

// Partition is one (sample, length) fasta file handed to the predictor.
type Partition struct {
	Sample  string
	Len     int
	Path    string
	Entries int
}

// FileName returns the base name of the partition file for a sample and length.
// The sample must stay the first '.'-delimited segment so predictor outputs
// can be traced back to it.
func FileName(sample string, length int) string {
	return fmt.Sprintf("%s.wildtype.tmp.%d.fasta", sample, length)
}

type partitionKey struct {
	sample string
	length int
}

// Scope sets how far repeated candidates are collapsed.
type Scope uint8

const (
	// RunScope writes each candidate once across all partitions of the run.
	RunScope Scope = iota
	// SampleScope writes each candidate once per sample, so every sample's
	// wildtype is predicted against that sample's own alleles.
	SampleScope
)

type seenKey struct {
	sample string
	key    string
}

type partitionWriter struct {
	*Partition
	file *fileio.EasyWriter
	fa   *fasta.Writer
}

// Emit computes the wildtype candidate of every record and writes each distinct
// candidate once within scope, partitioned by sample and epitope length.
// Candidates are returned in record order, including those skipped as repeats.
// A partition whose candidates were all written elsewhere has no entries.
func Emit(records []preds.Record, idx preds.SampleIndex, dir string, scope Scope) ([]Partition, []epitope.Candidate, error) {
	candidates, err := Resolve(records, idx)
	if err != nil {
		return nil, nil, err
	}

	bySample := idx.BySample(records)
	writers := make(map[partitionKey]*partitionWriter)
	var order []partitionKey
	for _, sam := range idx.Samples {
		var lengths []int
		for _, r := range bySample[sam] {
			if !slices.Contains(lengths, r.Len()) {
				lengths = append(lengths, r.Len())
			}
		}
		slices.Sort(lengths)
		for _, l := range lengths {
			pw, err := newPartitionWriter(sam, l, dir)
			if err != nil {
				closeAll(writers)
				return nil, nil, err
			}
			k := partitionKey{sample: sam, length: l}
			writers[k] = pw
			order = append(order, k)
		}
	}

	err = writeCandidates(candidates, writers, scope)
	if cerr := closeAll(writers); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, nil, err
	}

	partitions := make([]Partition, len(order))
	for i, k := range order {
		partitions[i] = *writers[k].Partition
	}
	return partitions, candidates, nil
}

// Resolve locates the wildtype candidate of every record without writing
// anything. Each sample's archive is read once.
func Resolve(records []preds.Record, idx preds.SampleIndex) ([]epitope.Candidate, error) {
	archives := make(map[string]*archive.Archive)
	candidates := make([]epitope.Candidate, len(records))
	var m archive.Match
	var err error
	for i, r := range records {
		a := archives[r.Sample]
		if a == nil {
			a, err = archive.Read(idx.Archives[r.Sample])
			if err != nil {
				return nil, err
			}
			archives[r.Sample] = a
		}

		m, err = a.Locate(archive.TargetID(r.Identity))
		if err != nil {
			return nil, fmt.Errorf("sample %s epitope %s: %w", r.Sample, r.Epitope, err)
		}
		candidates[i], err = epitope.FromMatch(r.Sample, m, r.Len())
		if err != nil {
			return nil, fmt.Errorf("sample %s epitope %s: %w", r.Sample, r.Epitope, err)
		}
	}
	return candidates, nil
}

func writeCandidates(candidates []epitope.Candidate, writers map[partitionKey]*partitionWriter, scope Scope) error {
	seen := make(map[seenKey]bool)
	var k seenKey
	var err error
	for _, c := range candidates {
		k = seenKey{key: c.Key()}
		if scope == SampleScope {
			k.sample = c.Sample
		}
		if seen[k] {
			continue
		}
		seen[k] = true

		pw := writers[partitionKey{sample: c.Sample, length: c.Len}]
		_, err = pw.fa.Write(linear.NewSeq(c.ID, alphabet.BytesToLetters([]byte(c.Seq)), alphabet.Protein))
		if err != nil {
			return err
		}
		pw.Entries++
	}
	return nil
}

// newPartitionWriter discards any file left from a previous pass before
// creating the partition file.
func newPartitionWriter(sample string, length int, dir string) (*partitionWriter, error) {
	path := filepath.Join(dir, FileName(sample, length))
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		log.Printf("WARNING: removed stale candidate file %s\n", path)
	}
	file := fileio.EasyCreate(path)
	return &partitionWriter{
		Partition: &Partition{Sample: sample, Len: length, Path: path},
		file:      file,
		fa:        fasta.NewWriter(file, lineWidth),
	}, nil
}

func closeAll(writers map[partitionKey]*partitionWriter) error {
	var ans error
	for _, pw := range writers {
		if err := pw.file.Close(); err != nil && ans == nil {
			ans = err
		}
	}
	return ans
}
