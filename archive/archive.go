// Package archive reads a sample's sequence archive of paired mutant and
// wildtype protein records and resolves the wildtype sequence and mutation
// offset for a prediction.
package archive

import (
	"fmt"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Record is one entry of the archive.
type Record struct {
	ID  string
	Seq string
}

// Archive holds every record of one sample's archive in file order.
type Archive struct {
	Path    string
	Records []Record
}

// Read parses a protein fasta archive into memory.
func Read(filename string) (*Archive, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ans := &Archive{Path: filename}
	sc := seqio.NewScanner(fasta.NewReader(f, linear.NewSeq("", nil, alphabet.Protein)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		ans.Records = append(ans.Records, Record{ID: s.ID, Seq: lettersToString(s.Seq)})
	}
	if err = sc.Error(); err != nil {
		return nil, fmt.Errorf("error reading archive %s: %w", filename, err)
	}
	return ans, nil
}

func lettersToString(l alphabet.Letters) string {
	b := make([]byte, len(l))
	for i := range l {
		b[i] = byte(l[i])
	}
	return string(b)
}
