package cot

import (
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rhino11/tacenrich/internal/track"
)

// MulticastPublisher sends a CoT event for each enriched object as it
// arrives. The enrichment engine already emits at most one update per
// tac_id per ACMI line, so there is no "latest state" to coalesce on a
// timer the way a periodic state broadcaster would: publish is the
// direct, synchronous path, not a buffered background loop.
type MulticastPublisher struct {
	conn      *net.UDPConn
	addr      *net.UDPAddr
	generator *CoTGenerator
	log       *logrus.Entry
}

// NewMulticastPublisher dials a UDP multicast endpoint. staleAfter sets
// how long a published event remains valid to a CoT client; pass
// StaleDurationFromMatcher(sess.Matcher) to tie it to the session's
// contact-matcher recency window.
func NewMulticastPublisher(multicastIP string, port int, staleAfter time.Duration, log *logrus.Logger) (*MulticastPublisher, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", multicastIP, port))
	if err != nil {
		return nil, fmt.Errorf("resolve multicast address: %w", err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial multicast connection: %w", err)
	}

	return &MulticastPublisher{
		conn:      conn,
		addr:      addr,
		generator: NewCoTGenerator(staleAfter),
		log:       log.WithField("component", "cot-multicast"),
	}, nil
}

// PublishObject converts obj into a CoT event and sends it immediately.
func (p *MulticastPublisher) PublishObject(obj *track.Object) error {
	data, err := p.generator.GenerateCoTMessage(ObjectToPlatformState(obj))
	if err != nil {
		return fmt.Errorf("generate CoT message: %w", err)
	}
	if _, err := p.conn.Write(data); err != nil {
		return fmt.Errorf("send CoT message: %w", err)
	}
	p.log.WithField("tac_id", fmt.Sprintf("%x", obj.TacID)).Debug("published CoT event")
	return nil
}

// Close closes the multicast connection.
func (p *MulticastPublisher) Close() error {
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Addr returns the resolved multicast address this publisher writes to.
func (p *MulticastPublisher) Addr() string {
	return p.addr.String()
}
