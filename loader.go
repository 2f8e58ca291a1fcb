package comptes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultDataFile is the ledger data file used when none is given.
const DefaultDataFile = "comptes.jsonl"

// LoadLedger loads the ledger from a JSONL data file. A missing file is not
// an error: it yields an empty ledger, so the first import bootstraps the
// data file.
func LoadLedger(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open data file %q: %w", path, err)
	}
	defer f.Close()

	l, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode data file %q: %w", path, err)
	}
	return l, nil
}

// SaveLedger persists the ledger to its JSONL data file. The write goes
// through a temporary file renamed into place, so a failing encode never
// truncates the previous data.
func SaveLedger(path string, l *Ledger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for data file %q: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("error creating temporary data file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeLedger(tmp, l); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing data file %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
