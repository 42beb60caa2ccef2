package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testArchive string = `>line3;NM_000546;WILDTYPE
MEEPQSDPSVEPPLSQETFSDLWKLL
>line3;NM_000546;c.14C>G;p.Q5E;protein-altering;5;
MEEPESDPSVEPPLSQETFSDLWKLL
>line12;NM_001126112;WILDTYPE
MTAYGLKAEYRRLQGHVPSDDIKTPC
>line12;NM_001126112;c.28T>A;p.Y10N;protein-altering;;(position;10;changed)
MTAYGLKAENRRLQGHVPSDDIKTPC
>line20;NM_000059;WILDTYPE
MPIGSKERPTFFEIFKTRCNKADLGP
>line21;NM_000059;WILDTYPE
MPIGSKERPTFFEIFKTRCNKADLGP
>line30;NM_000059;c.5G>A;p.G2E;protein-altering;;(position;unknown)
MEIGSKERPTFFEIFKTRCNKADLGP
>line30;NM_000059;WILDTYPE
MPIGSKERPTFFEIFKTRCNKADLGP
`

func writeArchive(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "S1.reformat.fasta")
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestRead(t *testing.T) {
	a, err := Read(writeArchive(t, testArchive))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Records) != 8 {
		t.Fatalf("expected 8 records, got %d", len(a.Records))
	}
	if a.Records[0].ID != "line3;NM_000546;WILDTYPE" || a.Records[0].Seq != "MEEPQSDPSVEPPLSQETFSDLWKLL" {
		t.Errorf("problem reading first record: %+v", a.Records[0])
	}
}

func TestTargetID(t *testing.T) {
	if TargetID("line3_NM_000546") != "line3;NM_000546" {
		t.Error("problem converting identity", TargetID("line3_NM_000546"))
	}
	if TargetID("line3_ENST_0001") != "line3;ENST_0001" {
		t.Error("identity must only be split on the first underscore", TargetID("line3_ENST_0001"))
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		id     string
		offset int
		format Format
	}{
		{"line3;NM_000546;c.14C>G;p.Q5E;protein-altering;5;", 4, FormatInline},
		{"line12;NM_001126112;c.28T>A;p.Y10N;protein-altering;;(position;10;changed)", 9, FormatShifted},
	}
	for _, test := range tests {
		offset, format, err := Position(test.id)
		if err != nil {
			t.Errorf("%s: %v", test.id, err)
			continue
		}
		if offset != test.offset || format != test.format {
			t.Errorf("%s: expected offset %d (%s), got %d (%s)", test.id, test.offset, test.format, offset, format)
		}
	}

	if _, _, err := Position("line30;NM_000059;c.5G>A;p.G2E;protein-altering;;(position;unknown)"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if _, _, err := Position("line3;NM_000546;c.14C>G;p.Q5E;protein-altering;0;"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat for position 0, got %v", err)
	}
}

func TestLocate(t *testing.T) {
	a, err := Read(writeArchive(t, testArchive))
	if err != nil {
		t.Fatal(err)
	}

	m, err := a.Locate(TargetID("line3_NM_000546"))
	if err != nil {
		t.Fatal(err)
	}
	if m.WildtypeID != "line3;NM_000546;WILDTYPE" || m.WildtypeSeq != "MEEPQSDPSVEPPLSQETFSDLWKLL" || m.Offset != 4 {
		t.Errorf("problem locating line3: %+v", m)
	}

	// identity truncated by the predictor still matches the truncated key
	m, err = a.Locate(TargetID("line12_NM_00112"))
	if err != nil {
		t.Fatal(err)
	}
	if m.WildtypeID != "line12;NM_001126112;WILDTYPE" || m.Offset != 9 || m.Format != FormatShifted {
		t.Errorf("problem locating line12: %+v", m)
	}
	if m.MutantID != "line12;NM_001126112;c.28T>A;p.Y10N;protein-altering;;(position;10;changed)" {
		t.Errorf("wrong mutant record: %s", m.MutantID)
	}
}

func TestLocateDeterministic(t *testing.T) {
	a, err := Read(writeArchive(t, testArchive))
	if err != nil {
		t.Fatal(err)
	}
	first, err := a.Locate("line12;NM_001126112")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := a.Locate("line12;NM_001126112")
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Errorf("lookup %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestLocateErrors(t *testing.T) {
	a, err := Read(writeArchive(t, testArchive))
	if err != nil {
		t.Fatal(err)
	}

	if _, err = a.Locate("line99;NM_000001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
	if _, err = a.Locate("line20;NM_000059"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a lone wildtype, got %v", err)
	}
	if _, err = a.Locate(";NM_000059"); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("expected ErrAmbiguous for two wildtype matches, got %v", err)
	}
	if _, err = a.Locate("line30;NM_000059"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
