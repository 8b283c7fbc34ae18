package tacarchive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeFixtureZip(t *testing.T, memberName, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.zip.acmi")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(memberName)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("write member: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	return path
}

func TestReaderFindsACMIMemberCaseInsensitively(t *testing.T) {
	path := writeFixtureZip(t, "Recording.ACMI", "FileType=text/acmi/tacview\n#1.0\n")

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

	if len(got) != 2 || got[0] != "FileType=text/acmi/tacview" || got[1] != "#1.0" {
		t.Fatalf("got %v", got)
	}
}

func TestOpenRejectsArchiveWithoutACMIMember(t *testing.T) {
	path := writeFixtureZip(t, "readme.txt", "not an acmi file")

	if _, err := Open(path); err == nil {
		t.Fatal("expected error for archive without .acmi member")
	}
}
