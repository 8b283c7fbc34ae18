// Package session owns one Store and one Reference for the lifetime of
// a single Tacview connection or file replay, rather than a module-scope
// global store shared across connections.
package session

import (
	"github.com/rhino11/tacenrich/internal/contact"
	"github.com/rhino11/tacenrich/internal/reference"
	"github.com/rhino11/tacenrich/internal/store"
	"github.com/rhino11/tacenrich/internal/track"

	"github.com/rhino11/tacenrich/internal/parser"
)

// Session is the explicit, session-scoped replacement for the source's
// process-wide object store: every call to ProcessLine is against this
// Session's own Store and Reference, never shared global state.
type Session struct {
	ID      int64
	Ref     *reference.Reference
	Store   *store.Store
	Matcher contact.Matcher
}

// New creates an empty Session for sessionID using the contact matcher's
// default thresholds.
func New(sessionID int64) *Session {
	return NewWithMatcher(sessionID, contact.DefaultMatcher())
}

// NewWithMatcher creates an empty Session for sessionID, overriding the
// contact matcher's thresholds with m.
func NewWithMatcher(sessionID int64, m contact.Matcher) *Session {
	return &Session{
		ID:      sessionID,
		Ref:     reference.New(sessionID),
		Store:   store.New(),
		Matcher: m,
	}
}

// ProcessLine decodes one ACMI line against this Session's Store,
// Reference, and Matcher. See parser.ParseLine for the full contract.
func (s *Session) ProcessLine(line string) (rec *track.Object, impactDetected bool, err error) {
	return parser.ParseLine(s.Ref, s.Store, line, s.Matcher)
}

// Objects returns every object observed so far this session. Order is
// unspecified.
func (s *Session) Objects() []*track.Object {
	return s.Store.Values()
}
