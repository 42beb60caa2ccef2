package aggregate

import (
	"path/filepath"
	"strings"
	"testing"
)

// echoDigester emits one row per file so attribution can be checked.
type echoDigester struct {
	calls map[string][]string
}

func (e *echoDigester) Digest(files []string, sample string, filter bool, maxAffinity float64) <-chan string {
	e.calls[sample] = append(e.calls[sample], files...)
	c := make(chan string, len(files))
	for _, f := range files {
		c <- "row\t" + filepath.Base(f)
	}
	close(c)
	return c
}

func TestSampleOf(t *testing.T) {
	tests := map[string]string{
		"/tmp/NeoRecoTMP/S1.wildtype.epitopes.9.txt":       "S1",
		"patient-7_R2.wildtype.epitopes.10.txt":            "patient-7_R2",
		"/out/NeoRecoTMP/TCGA-AB-1234.wildtype.epitopes.9": "TCGA-AB-1234",
		"noextension":                                      "noextension",
	}
	for path, expected := range tests {
		if SampleOf(path) != expected {
			t.Errorf("%s: expected %s, got %s", path, expected, SampleOf(path))
		}
	}
}

func TestGroup(t *testing.T) {
	raw := []string{
		"/w/S2.wildtype.epitopes.9.txt",
		"/w/S1.wildtype.epitopes.9.txt",
		"/w/S2.wildtype.epitopes.10.txt",
		"/w/S1.wildtype.epitopes.11.txt",
	}
	samples, files := Group(raw)
	if strings.Join(samples, ",") != "S2,S1" {
		t.Errorf("samples out of order: %v", samples)
	}
	var total int
	for _, sam := range samples {
		for _, f := range files[sam] {
			if SampleOf(f) != sam {
				t.Errorf("%s attributed to %s", f, sam)
			}
			total++
		}
	}
	if total != len(raw) {
		t.Errorf("expected %d outputs across samples, got %d", len(raw), total)
	}
}

func TestAggregate(t *testing.T) {
	raw := []string{
		"/w/S1.wildtype.epitopes.9.txt",
		"/w/S2.wildtype.epitopes.9.txt",
		"/w/S1.wildtype.epitopes.10.txt",
	}
	d := &echoDigester{calls: make(map[string][]string)}
	lines := Aggregate(raw, d)
	expected := []string{
		"S1\trow\tS1.wildtype.epitopes.9.txt",
		"S1\trow\tS1.wildtype.epitopes.10.txt",
		"S2\trow\tS2.wildtype.epitopes.9.txt",
	}
	if strings.Join(lines, "\n") != strings.Join(expected, "\n") {
		t.Errorf("unexpected aggregate:\n%s", strings.Join(lines, "\n"))
	}
	if len(d.calls["S1"]) != 2 || len(d.calls["S2"]) != 1 {
		t.Errorf("digester called with wrong files: %v", d.calls)
	}
}
