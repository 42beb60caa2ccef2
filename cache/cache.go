// Package cache persists the result of a wildtype pass keyed by a hash of
// everything the pass reads, so an unchanged rerun can skip the predictor.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dasnellings/neoreco/epitope"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/crypto/blake2b"
)

// Version must change whenever the file layout or the meaning of a cached
// result changes.
const Version string = "v1"

const magic string = "neoreco-cache"

// trailer starts the last line of a complete entry. It cannot start with '#'
// since comment lines are skipped on reading.
const trailer string = "END"

var ErrStale = errors.New("cache entry is stale")

// Result is the cached outcome of a pass.
type Result struct {
	Candidates  []epitope.Candidate // one per filtered record, in record order
	Predictions []string            // sample-prefixed wildtype predictions
}

// Key hashes the cache version, the prediction input, every regular file in
// fastaDir, and any extra configuration strings.
func Key(input, fastaDir string, extra ...string) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(h, "%s\t%s\n", magic, Version)
	if err = hashFile(h, input); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(fastaDir)
	if err != nil {
		return "", err
	}
	for _, e := range entries { // sorted by name
		if !e.Type().IsRegular() {
			continue
		}
		fmt.Fprintf(h, "%s\n", e.Name())
		if err = hashFile(h, filepath.Join(fastaDir, e.Name())); err != nil {
			return "", err
		}
	}

	for _, s := range extra {
		fmt.Fprintf(h, "%s\n", s)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(w io.Writer, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// Write stores a result under key, replacing any previous entry. The entry is
// written beside filename and renamed into place once complete, and ends with
// a trailer holding the row counts.
func Write(filename, key string, r Result) {
	tmp := filename + ".tmp"
	out := fileio.EasyCreate(tmp)
	fmt.Fprintf(out, "%s\t%s\t%s\n", magic, Version, key)
	for _, c := range r.Candidates {
		fmt.Fprintf(out, "C\t%s\t%s\t%d\t%s\n", c.Sample, c.ID, c.Len, c.Seq)
	}
	for _, p := range r.Predictions {
		fmt.Fprintf(out, "P\t%s\n", p)
	}
	fmt.Fprintf(out, "%s\t%d\t%d\n", trailer, len(r.Candidates), len(r.Predictions))
	err := out.Close()
	exception.PanicOnErr(err)
	err = os.Rename(tmp, filename)
	exception.PanicOnErr(err)
}

// Read loads the result stored under key. A missing file returns an error
// satisfying errors.Is(err, fs.ErrNotExist); a different version or key, or an
// entry whose trailer is missing or disagrees with its rows, returns ErrStale.
func Read(filename, key string) (Result, error) {
	var ans Result
	if _, err := os.Stat(filename); err != nil {
		return ans, err
	}

	file := fileio.EasyOpen(filename)
	defer file.Close()

	line, done := fileio.EasyNextRealLine(file)
	if done {
		return ans, fmt.Errorf("%w: %s is empty", ErrStale, filename)
	}
	header := strings.Split(line, "\t")
	if len(header) != 3 || header[0] != magic {
		return ans, fmt.Errorf("%s is not a cache file", filename)
	}
	if header[1] != Version || header[2] != key {
		return ans, fmt.Errorf("%w: %s was written for %s %s", ErrStale, filename, header[1], header[2])
	}

	var words []string
	var c epitope.Candidate
	var err error
	var complete bool
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		if complete {
			return Result{}, fmt.Errorf("malformed line after trailer in %s: %s", filename, line)
		}
		words = strings.SplitN(line, "\t", 2)
		switch {
		case words[0] == "P" && len(words) == 2:
			ans.Predictions = append(ans.Predictions, words[1])
		case words[0] == "C":
			words = strings.Split(line, "\t")
			if len(words) != 5 {
				return Result{}, fmt.Errorf("malformed candidate in %s: %s", filename, line)
			}
			c = epitope.Candidate{Sample: words[1], ID: words[2], Seq: words[4]}
			c.Len, err = strconv.Atoi(words[3])
			if err != nil {
				return Result{}, fmt.Errorf("malformed candidate in %s: %w", filename, err)
			}
			ans.Candidates = append(ans.Candidates, c)
		case words[0] == trailer:
			if line != fmt.Sprintf("%s\t%d\t%d", trailer, len(ans.Candidates), len(ans.Predictions)) {
				return Result{}, fmt.Errorf("%w: %s holds %d candidates and %d predictions but ends with %q",
					ErrStale, filename, len(ans.Candidates), len(ans.Predictions), line)
			}
			complete = true
		default:
			return Result{}, fmt.Errorf("malformed line in %s: %s", filename, line)
		}
	}
	if !complete {
		return Result{}, fmt.Errorf("%w: %s is truncated", ErrStale, filename)
	}
	return ans, nil
}
