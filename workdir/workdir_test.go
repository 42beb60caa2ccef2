package workdir

import (
	"os"
	"path/filepath"
	"testing"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestAcquireRelease(t *testing.T) {
	out := t.TempDir()
	stale := filepath.Join(Path(out), "S1.wildtype.tmp.9.fasta")
	if err := os.MkdirAll(Path(out), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte(">old\nAAAAAAAAA\n"), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := Acquire(out, false)
	if err != nil {
		t.Fatal(err)
	}
	if exists(stale) {
		t.Error("stale file survived Acquire")
	}
	if !exists(d.Path) {
		t.Fatal("working directory was not created")
	}
	if err = d.Release(); err != nil {
		t.Fatal(err)
	}
	if exists(d.Path) {
		t.Error("working directory survived Release")
	}
}

func TestReleaseKeep(t *testing.T) {
	out := t.TempDir()
	d, err := Acquire(out, true)
	if err != nil {
		t.Fatal(err)
	}
	if err = d.Release(); err != nil {
		t.Fatal(err)
	}
	if !exists(d.Path) {
		t.Error("working directory removed despite keep")
	}
	if err = Clean(out); err != nil {
		t.Fatal(err)
	}
	if exists(d.Path) {
		t.Error("Clean left the working directory behind")
	}
}
