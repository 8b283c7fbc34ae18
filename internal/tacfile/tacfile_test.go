package tacfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReaderYieldsNonEmptyLinesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.acmi")
	body := "FileType=text/acmi/tacview\n\n0,ReferenceTime=2024-01-01T00:00:00.000000Z\n#1.0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	var got []string
	for {
		line, ok, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, line)
	}

	want := []string{
		"FileType=text/acmi/tacview",
		"0,ReferenceTime=2024-01-01T00:00:00.000000Z",
		"#1.0",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.acmi")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
