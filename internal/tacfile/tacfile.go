// Package tacfile reads a recorded .acmi file from disk line by line, for
// replay against internal/session the same way internal/tacview feeds a
// live connection.
package tacfile

import (
	"bufio"
	"fmt"
	"os"
)

// Reader yields lines from an .acmi file in order.
type Reader struct {
	f       *os.File
	scanner *bufio.Scanner
}

// Open opens path for line-by-line reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open acmi file %q: %w", path, err)
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{f: f, scanner: scanner}, nil
}

// Next returns the next non-empty line, or ok=false at end of file.
func (r *Reader) Next() (line string, ok bool, err error) {
	for r.scanner.Scan() {
		text := r.scanner.Text()
		if text == "" {
			continue
		}
		return text, true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", false, fmt.Errorf("read acmi file: %w", err)
	}
	return "", false, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.f.Close()
}
