// Package tacarchive unwraps a .zip.acmi envelope, Tacview's recorded-file
// packaging, using the standard library's archive/zip: no ecosystem zip
// library appears anywhere in the example pack, so this one concern stays
// on the standard library (see DESIGN.md).
package tacarchive

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Reader yields lines from the single .acmi member of a zip archive.
type Reader struct {
	zr      *zip.ReadCloser
	rc      io.ReadCloser
	scanner *bufio.Scanner
}

// Open opens path as a zip archive and locates its .acmi member.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip archive %q: %w", path, err)
	}

	var member *zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".acmi") {
			member = f
			break
		}
	}
	if member == nil {
		zr.Close()
		return nil, fmt.Errorf("no .acmi member found in %q", path)
	}

	rc, err := member.Open()
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("open archive member %q: %w", member.Name, err)
	}

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{zr: zr, rc: rc, scanner: scanner}, nil
}

// Next returns the next non-empty line, or ok=false at end of the member.
func (r *Reader) Next() (line string, ok bool, err error) {
	for r.scanner.Scan() {
		text := r.scanner.Text()
		if text == "" {
			continue
		}
		return text, true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", false, fmt.Errorf("read archive member: %w", err)
	}
	return "", false, nil
}

// Close releases the archive member and the archive itself.
func (r *Reader) Close() error {
	rcErr := r.rc.Close()
	zrErr := r.zr.Close()
	if rcErr != nil {
		return rcErr
	}
	return zrErr
}
