package archive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	wildtypeTag string = "WILDTYPE"
	keyLen      int    = 16 // netMHCpan truncates peptide identities, so match on a prefix
	maxMatches  int    = 2
)

var (
	ErrNotFound      = errors.New("wildtype/mutant pair not found in archive")
	ErrAmbiguous     = errors.New("archive matches are not one wildtype and one mutant")
	ErrUnknownFormat = errors.New("unrecognized mutant id format")
)

// Format identifies which field of a mutant id carries the 1-based mutation
// position. Archives built by older versions of the upstream pipeline carry one
// more field ahead of the position.
type Format uint8

const (
	FormatInline  Format = iota // position in field 5
	FormatShifted               // position in field 6
)

func (f Format) String() string {
	switch f {
	case FormatInline:
		return "inline"
	case FormatShifted:
		return "shifted"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// Match is the result of a single archive lookup: the wildtype record and the
// offset resolved from its mutant partner.
type Match struct {
	WildtypeID  string
	WildtypeSeq string
	MutantID    string
	Offset      int // 0-based
	Format      Format
}

// TargetID converts a predictor identity (e.g. line3_NM_000546) to the
// archive id prefix it was derived from (line3;NM_000546).
func TargetID(identity string) string {
	return strings.Replace(identity, "_", ";", 1)
}

// key returns the first two ';' segments of an archive id, truncated.
func key(id string) string {
	words := strings.SplitN(id, ";", 3)
	if len(words) > 2 {
		words = words[:2]
	}
	k := strings.Join(words, ";")
	if len(k) > keyLen {
		k = k[:keyLen]
	}
	return k
}

func isWildtype(id string) bool {
	words := strings.Split(id, ";")
	return len(words) > 2 && strings.Contains(words[2], wildtypeTag)
}

// Position returns the 0-based mutation offset encoded in a mutant id and the
// format it was found in.
func Position(id string) (int, Format, error) {
	words := strings.Split(strings.ReplaceAll(id, ";;", ";"), ";")
	var pos int
	var format Format
	var err error
	switch {
	case len(words) > 5 && isInt(words[5]):
		format = FormatInline
		pos, err = strconv.Atoi(words[5])
	case len(words) > 6 && isInt(words[6]):
		format = FormatShifted
		pos, err = strconv.Atoi(words[6])
	default:
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownFormat, id)
	}
	if err != nil {
		return 0, 0, err
	}
	if pos < 1 {
		return 0, 0, fmt.Errorf("%w: position %d is not 1-based: %s", ErrUnknownFormat, pos, id)
	}
	return pos - 1, format, nil
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// Locate finds the wildtype/mutant pair whose id prefix contains target and
// returns the wildtype sequence together with the mutant's offset. Anything
// other than exactly one wildtype and one mutant among the first two matches
// is an error.
func (a *Archive) Locate(target string) (Match, error) {
	var ans Match
	var wt, mut *Record
	var count int
	for i := range a.Records {
		if !strings.Contains(key(a.Records[i].ID), target) {
			continue
		}
		count++
		if isWildtype(a.Records[i].ID) {
			if wt != nil {
				return Match{}, fmt.Errorf("%w: %s has two wildtype records in %s", ErrAmbiguous, target, a.Path)
			}
			wt = &a.Records[i]
		} else {
			if mut != nil {
				return Match{}, fmt.Errorf("%w: %s has two mutant records in %s", ErrAmbiguous, target, a.Path)
			}
			mut = &a.Records[i]
		}
		if count == maxMatches {
			break
		}
	}

	if wt == nil || mut == nil {
		return Match{}, fmt.Errorf("%w: %s matched %d record(s) in %s", ErrNotFound, target, count, a.Path)
	}

	var err error
	ans.Offset, ans.Format, err = Position(mut.ID)
	if err != nil {
		return Match{}, err
	}
	ans.WildtypeID = wt.ID
	ans.WildtypeSeq = wt.Seq
	ans.MutantID = mut.ID
	return ans, nil
}
