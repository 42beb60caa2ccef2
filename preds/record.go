package preds

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Marker is the threshold marker netMHCpan prints in front of the bind level
// for peptides below its rank cutoffs (e.g. "<=\tSB").
const Marker string = "<="

// DefaultMaxAffinity is the admission threshold for predicted binders in nM.
const DefaultMaxAffinity float64 = 500.0

// minFields is the smallest effective row that still carries the sample id
// and the predictor block from Allele through Rank.
const minFields int = 14

// offsets of the predictor block, counted from the end of the effective row
const (
	offAllele   = 13
	offEpitope  = 5
	offIdentity = 4
	offScore    = 3
	offAffinity = 2
	offRank     = 1
)

var ErrMalformed = errors.New("malformed prediction record")

// Kind separates rows that end with the predictor block from rows that carry
// the trailing marker and bind level pair.
type Kind uint8

const (
	Plain Kind = iota
	Annotated
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "Plain"
	case Annotated:
		return "Annotated"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Record is one prediction row. Fields holds the row exactly as read, marker
// included, so it can be written back out unchanged.
type Record struct {
	Fields   []string
	Kind     Kind
	Level    string // bind level (SB, WB) for Annotated rows
	Sample   string
	Allele   string
	Epitope  string
	Identity string
	Score    string
	Affinity float64
	Rank     string
}

// String returns the row in its original tab-delimited form.
func (r Record) String() string {
	return strings.Join(r.Fields, "\t")
}

// Len is the epitope length used to partition wildtype candidates.
func (r Record) Len() int {
	return len(r.Epitope)
}

// ParseLine parses one tab-delimited prediction row. The genotype block between
// the sample id and the predictor output varies by caller, so the named fields
// are located from the end of the row.
func ParseLine(line string) (Record, error) {
	var ans Record
	ans.Fields = strings.Split(line, "\t")

	eff := ans.Fields
	if len(eff) >= 2 && eff[len(eff)-2] == Marker {
		ans.Kind = Annotated
		ans.Level = eff[len(eff)-1]
		eff = eff[:len(eff)-2]
	}

	if len(eff) < minFields {
		return Record{}, fmt.Errorf("%w: expected at least %d fields, found %d: %s", ErrMalformed, minFields, len(eff), line)
	}

	var err error
	ans.Affinity, err = strconv.ParseFloat(eff[len(eff)-offAffinity], 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: binding affinity %q is not numeric: %s", ErrMalformed, eff[len(eff)-offAffinity], line)
	}

	ans.Sample = eff[0]
	ans.Allele = eff[len(eff)-offAllele]
	ans.Epitope = eff[len(eff)-offEpitope]
	ans.Identity = eff[len(eff)-offIdentity]
	ans.Score = eff[len(eff)-offScore]
	ans.Rank = eff[len(eff)-offRank]
	return ans, nil
}

// NormalizeAllele converts an allele to the syntax netMHCpan accepts on its
// command line, e.g. HLA-A*02:01 -> HLA-A02:01.
func NormalizeAllele(allele string) string {
	return strings.ReplaceAll(allele, "*", "")
}
