// Package workdir manages the temporary directory holding candidate fasta files
// and raw predictor output for one pass.
package workdir

import (
	"log"
	"os"
	"path/filepath"
)

// Name is the working directory created inside the output directory.
const Name string = "NeoRecoTMP"

// Dir is a working directory acquired for a single pass. Only one pass may use
// a given output directory at a time.
type Dir struct {
	Path string
	Keep bool
}

// Path returns the working directory location for outDir.
func Path(outDir string) string {
	return filepath.Join(outDir, Name)
}

// Acquire removes any working directory left in outDir and creates a fresh one.
// When keep is set, Release leaves the contents in place for debugging.
func Acquire(outDir string, keep bool) (*Dir, error) {
	path := Path(outDir)
	if err := os.RemoveAll(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, err
	}
	return &Dir{Path: path, Keep: keep}, nil
}

// Release removes the working directory unless it was acquired with keep.
// Safe to defer on every exit path.
func (d *Dir) Release() error {
	if d.Keep {
		log.Printf("intermediate files kept in %s\n", d.Path)
		return nil
	}
	return os.RemoveAll(d.Path)
}

// Clean removes the working directory of outDir.
func Clean(outDir string) error {
	return os.RemoveAll(Path(outDir))
}
