// Package sink defines the downstream relational store contract. The core
// engine (internal/session and below) never imports this package
// directly; it is an external collaborator wired in by cmd/tacenrich.
package sink

import (
	"context"

	"github.com/rhino11/tacenrich/internal/track"
)

// Sink persists enriched objects. Assign hands back a stable surrogate id
// for a tac_id, used to rewrite Parent/Impacted references out of
// tac_id-space before a row is written; the same tac_id always maps to
// the same surrogate id for the lifetime of the Sink.
type Sink interface {
	Assign(tacID int64) int64
	Write(ctx context.Context, obj *track.Object) error
	Close() error
}
