package testset

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/turtacn/DiagBench/pkg/errors"
)

// StdoutPath makes WriteFile write to standard output instead of a file.
const StdoutPath = "-"

// Write encodes cases as JSONL to w. HTML escaping is off so Cyrillic and
// punctuation are written as-is.
func Write(w io.Writer, cases []TestCase) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i := range cases {
		if err := enc.Encode(&cases[i]); err != nil {
			return errors.Wrapf(err, errors.ErrCodeFatalIO, "encode test case %d", i)
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrCodeFatalIO, "flush test set")
	}
	return nil
}

// WriteFile writes all cases to path in one pass. The data goes to a
// temporary file in the same directory which is renamed over path only after
// a successful write, so readers never observe a partial artifact.
func WriteFile(path string, cases []TestCase) error {
	if path == StdoutPath {
		return Write(os.Stdout, cases)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeFatalIO, "create temp file for %q", path)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := Write(tmp, cases); err != nil {
		return errors.Wrapf(err, errors.CodeUnknown, "write %q", path)
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrapf(err, errors.ErrCodeFatalIO, "sync %q", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrCodeFatalIO, "close %q", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrCodeFatalIO, "chmod %q", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, errors.ErrCodeFatalIO, "rename into %q", path)
	}
	committed = true
	return nil
}

//Personal.AI order the ending
