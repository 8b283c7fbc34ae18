// Package sqlitesink is the sink.Sink implementation grounded on
// banshee-data/velocity.report's storage layer: modernc.org/sqlite for a
// pure-Go, cgo-free driver and github.com/golang-migrate/migrate/v4 for
// schema migrations, the same pairing that repo uses for its own track
// store.
package sqlitesink

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rhino11/tacenrich/internal/track"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Sink writes enriched objects to a SQLite database, assigning each tac_id
// a monotonic surrogate id and rewriting Parent/Impacted references into
// surrogate-id space at write time.
type Sink struct {
	db          *sql.DB
	sessionUUID string

	mu        sync.Mutex
	surrogate map[int64]int64
	nextID    int64
}

// Open connects to dsn, runs pending migrations, and registers a new
// session row stamped with a fresh UUID, which every object row written
// by this Sink carries in its session_uuid column.
func Open(dsn string, tacSessionID int64) (*Sink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite dsn %q: %w", dsn, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal_mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	sessionUUID := uuid.NewString()
	if _, err := db.Exec(
		`INSERT INTO sessions (session_uuid, tac_session_id, started_at) VALUES (?, ?, ?)`,
		sessionUUID, tacSessionID, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("insert session row: %w", err)
	}

	return &Sink{
		db:          db,
		sessionUUID: sessionUUID,
		surrogate:   make(map[int64]int64),
		nextID:      1,
	}, nil
}

func migrateUp(db *sql.DB) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("sub migrations fs: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	target, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration target: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", target)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Assign returns the surrogate id for tacID, allocating one the first
// time it is seen and returning the same value on every later call.
func (s *Sink) Assign(tacID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.surrogate[tacID]; ok {
		return id
	}
	id := s.nextID
	s.nextID++
	s.surrogate[tacID] = id
	return id
}

// Write upserts obj, rewriting Parent and Impacted from tac_id-space into
// surrogate-id space via Assign. A Parent or Impacted of track.ParentUnset
// stays NULL.
func (s *Sink) Write(ctx context.Context, obj *track.Object) error {
	id := s.Assign(obj.TacID)

	var parentID, impactedID sql.NullInt64
	if obj.Parent != 0 {
		parentID = sql.NullInt64{Int64: s.Assign(obj.Parent), Valid: true}
	}
	if obj.Impacted != 0 {
		impactedID = sql.NullInt64{Int64: s.Assign(obj.Impacted), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO objects (
			id, session_uuid, tac_id, name, type, color, country, coalition,
			pilot, unit_group, category, lat, lon, alt, heading, velocity_kts,
			first_seen, last_seen, updates, alive, parent_id, parent_dist,
			impacted_id, impact_dist
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_uuid, tac_id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			color = excluded.color,
			country = excluded.country,
			coalition = excluded.coalition,
			pilot = excluded.pilot,
			unit_group = excluded.unit_group,
			category = excluded.category,
			lat = excluded.lat,
			lon = excluded.lon,
			alt = excluded.alt,
			heading = excluded.heading,
			velocity_kts = excluded.velocity_kts,
			last_seen = excluded.last_seen,
			updates = excluded.updates,
			alive = excluded.alive,
			parent_id = excluded.parent_id,
			parent_dist = excluded.parent_dist,
			impacted_id = excluded.impacted_id,
			impact_dist = excluded.impact_dist
	`,
		id, s.sessionUUID, obj.TacID, obj.Name, obj.Type, obj.Color, obj.Country,
		obj.Coalition, obj.Pilot, obj.Group, obj.Category.String(), obj.Lat,
		obj.Lon, obj.Alt, obj.Heading, obj.VelocityKts, obj.FirstSeen,
		obj.LastSeen, obj.Updates, obj.Alive, parentID, nullIfUnset(obj.ParentDist),
		impactedID, nullIfUnset(obj.ImpactDist),
	)
	if err != nil {
		return fmt.Errorf("write object tac_id=%d: %w", obj.TacID, err)
	}
	return nil
}

func nullIfUnset(dist float64) sql.NullFloat64 {
	if dist == track.DistUnset {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: dist, Valid: true}
}

// Close releases the underlying database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}
