package epitope

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dasnellings/neoreco/archive"
)

var ErrOutOfBounds = errors.New("epitope window outside of sequence")

// Extract returns the length-long window of seq starting at offset. The window
// is never clamped: a shorter wildtype would not correspond to the prediction.
func Extract(seq string, offset, length int) (string, error) {
	if offset < 0 || length < 1 || offset+length > len(seq) {
		return "", fmt.Errorf("%w: offset %d length %d sequence length %d", ErrOutOfBounds, offset, length, len(seq))
	}
	return seq[offset : offset+length], nil
}

// Candidate is a wildtype epitope to be sent back through the predictor.
type Candidate struct {
	Sample string
	ID     string // wildtype archive id
	Len    int
	Seq    string
}

// Key identifies repeated candidates within a run.
func (c Candidate) Key() string {
	return c.ID + c.Seq + strconv.Itoa(c.Len)
}

// FromMatch extracts the wildtype candidate of the given length for a located
// wildtype/mutant pair.
func FromMatch(sample string, m archive.Match, length int) (Candidate, error) {
	seq, err := Extract(m.WildtypeSeq, m.Offset, length)
	if err != nil {
		return Candidate{}, fmt.Errorf("%s (%s): %w", m.WildtypeID, m.MutantID, err)
	}
	return Candidate{Sample: sample, ID: m.WildtypeID, Len: length, Seq: seq}, nil
}
