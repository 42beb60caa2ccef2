package preds

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// row builds a prediction line with two genotype columns followed by a
// netMHCpan block. tail is appended verbatim (e.g. "<=", "SB").
func row(sample, allele, epitope, identity, affinity string, tail ...string) string {
	fields := []string{sample, "0.35", "0.21", "line3", "chr17", "7579472", "G", "C", "TP53:NM_000546",
		"1", allele, epitope, epitope, "0", "0", "0", "0", "0", epitope, identity, "0.781", affinity, "0.45"}
	fields = append(fields, tail...)
	return strings.Join(fields, "\t")
}

func TestParseLine(t *testing.T) {
	r, err := ParseLine(row("S1", "HLA-A*02:01", "KLMEFAKTV", "line3_NM_000546", "250.00", "<=", "SB"))
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind != Annotated || r.Level != "SB" {
		t.Errorf("expected Annotated SB row, got %s %q", r.Kind, r.Level)
	}
	if r.Sample != "S1" || r.Allele != "HLA-A*02:01" || r.Epitope != "KLMEFAKTV" || r.Identity != "line3_NM_000546" {
		t.Errorf("problem locating named fields: %+v", r)
	}
	if r.Affinity != 250 || r.Score != "0.781" || r.Rank != "0.45" {
		t.Errorf("problem locating numeric fields: %+v", r)
	}
	if r.Len() != 9 {
		t.Errorf("expected epitope length 9, got %d", r.Len())
	}

	plain, err := ParseLine(row("S1", "HLA-B*07:02", "KLMEFAKTVA", "line3_NM_000546", "312.5"))
	if err != nil {
		t.Fatal(err)
	}
	if plain.Kind != Plain || plain.Level != "" || plain.Affinity != 312.5 || plain.Allele != "HLA-B*07:02" {
		t.Errorf("problem parsing plain row: %+v", plain)
	}
}

func TestParseLineMalformed(t *testing.T) {
	_, err := ParseLine(row("S1", "HLA-A*02:01", "KLMEFAKTV", "line3_NM_000546", "strong", "<=", "SB"))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for non-numeric affinity, got %v", err)
	}

	_, err = ParseLine("S1\tKLMEFAKTV\tline3_NM_000546\t250.00\t0.45")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for truncated row, got %v", err)
	}
}

func TestFilter(t *testing.T) {
	lines := []string{
		row("S1", "HLA-A*02:01", "KLMEFAKTV", "line3_NM_000546", "250.00", "<=", "SB"),
		row("S1", "HLA-A*02:01", "KLMEFAKTW", "line4_NM_000546", "750.00", "<=", "SB"),
		row("S1", "HLA-A*02:01", "KLMEFAKTY", "line5_NM_000546", "500.0"),
		row("S1", "HLA-A*02:01", "KLMEFAKTF", "line6_NM_000546", "500.01"),
	}
	kept, err := Filter(lines, DefaultMaxAffinity)
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 2 {
		t.Fatalf("expected 2 records at or below 500 nM, got %d", len(kept))
	}
	if kept[0].Identity != "line3_NM_000546" || kept[1].Identity != "line5_NM_000546" {
		t.Errorf("wrong records kept: %s, %s", kept[0].Identity, kept[1].Identity)
	}
	// the marker pair stays in the output layout
	if kept[0].String() != lines[0] {
		t.Errorf("record layout changed:\n%s\n%s", kept[0].String(), lines[0])
	}

	_, err = Filter(append(lines, "S1\tbroken"), DefaultMaxAffinity)
	if err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "preds.txt")
	content := row("S1", "HLA-A*02:01", "KLMEFAKTV", "line3_NM_000546", "250.00", "<=", "SB") + "\n" +
		row("S2", "HLA-A*02:01", "KLMEFAKTV", "line3_NM_000546", "900.00") + "\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	kept, err := Load(file, DefaultMaxAffinity)
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 1 || kept[0].Sample != "S1" {
		t.Errorf("problem loading predictions: %+v", kept)
	}
}

func TestSampleIndex(t *testing.T) {
	lines := []string{
		row("S2", "HLA-A*02:01", "KLMEFAKTV", "line3_NM_000546", "10"),
		row("S1", "HLA-B*07:02", "KLMEFAKTV", "line3_NM_000546", "10"),
		row("S2", "HLA-C*07:01", "KLMEFAKTV", "line3_NM_000546", "10"),
		row("S2", "HLA-A*02:01", "KLMEFAKTVA", "line3_NM_000546", "10"),
	}
	records, err := Filter(lines, DefaultMaxAffinity)
	if err != nil {
		t.Fatal(err)
	}
	idx := NewSampleIndex(records, "/data/fastas")
	if strings.Join(idx.Samples, ",") != "S2,S1" {
		t.Errorf("samples out of first-seen order: %v", idx.Samples)
	}
	if strings.Join(idx.Alleles["S2"], ",") != "HLA-A*02:01,HLA-C*07:01" {
		t.Errorf("problem collecting alleles: %v", idx.Alleles["S2"])
	}
	if strings.Join(idx.NormalizedAlleles("S2"), ",") != "HLA-A02:01,HLA-C07:01" {
		t.Errorf("problem normalizing alleles: %v", idx.NormalizedAlleles("S2"))
	}
	if idx.Archives["S1"] != "/data/fastas/S1.reformat.fasta" {
		t.Errorf("unexpected archive path: %s", idx.Archives["S1"])
	}
	if len(idx.BySample(records)["S2"]) != 3 {
		t.Errorf("problem grouping records by sample")
	}
}
