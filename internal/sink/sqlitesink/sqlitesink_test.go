package sqlitesink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rhino11/tacenrich/internal/track"
)

func openTestSink(t *testing.T) *Sink {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAssignIsStablePerTacID(t *testing.T) {
	s := openTestSink(t)

	first := s.Assign(100)
	second := s.Assign(100)
	if first != second {
		t.Fatalf("Assign(100) = %d then %d, want stable", first, second)
	}

	other := s.Assign(200)
	if other == first {
		t.Fatalf("Assign(200) reused surrogate id %d from a different tac_id", other)
	}
}

func TestWriteRewritesParentToSurrogateSpace(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	parent := track.New(10, 1, 0)
	parent.Type = "Air+FixedWing"
	if err := s.Write(ctx, parent); err != nil {
		t.Fatalf("Write parent: %v", err)
	}

	child := track.New(20, 1, 0)
	child.Type = "Weapon+Missile"
	child.Parent = 10
	child.ParentDist = 42.5
	if err := s.Write(ctx, child); err != nil {
		t.Fatalf("Write child: %v", err)
	}

	var parentID, childParentID int64
	var parentDist float64
	if err := s.db.QueryRow(`SELECT id FROM objects WHERE tac_id = 10`).Scan(&parentID); err != nil {
		t.Fatalf("select parent id: %v", err)
	}
	if err := s.db.QueryRow(`SELECT parent_id, parent_dist FROM objects WHERE tac_id = 20`).
		Scan(&childParentID, &parentDist); err != nil {
		t.Fatalf("select child parent_id: %v", err)
	}

	if childParentID != parentID {
		t.Fatalf("child parent_id = %d, want %d (surrogate for tac_id 10)", childParentID, parentID)
	}
	if parentDist != 42.5 {
		t.Fatalf("parent_dist = %v, want 42.5", parentDist)
	}
}

func TestWriteUpsertsOnRepeatedTacID(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()

	obj := track.New(55, 1, 0)
	obj.Name = "Viper 1"
	if err := s.Write(ctx, obj); err != nil {
		t.Fatalf("Write: %v", err)
	}

	obj.Observe(10)
	obj.Name = "Viper 1-1"
	if err := s.Write(ctx, obj); err != nil {
		t.Fatalf("Write second time: %v", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM objects WHERE tac_id = 55`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("row count for tac_id 55 = %d, want 1 (upsert, not insert)", count)
	}

	var name string
	if err := s.db.QueryRow(`SELECT name FROM objects WHERE tac_id = 55`).Scan(&name); err != nil {
		t.Fatalf("select name: %v", err)
	}
	if name != "Viper 1-1" {
		t.Fatalf("name = %q, want updated value", name)
	}
}
