// Package tacview implements the Tacview real-time telemetry client: it
// performs the protocol handshake over TCP and yields decoded ACMI lines
// on a channel, driven by a background read loop rather than pulled
// synchronously.
package tacview

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	protocolHandshake = "XtraLib.Stream.0\nTacview.RealTimeTelemetry.0\n"
	handshakeTerm     = "\x00"
)

// Client is a connected Tacview real-time telemetry session. Lines
// delivers each decoded ACMI line in order; the channel is closed when the
// connection ends, and Err reports why.
type Client struct {
	conn   net.Conn
	lines  chan string
	errc   chan error
	log    *logrus.Entry
	lastErr error
}

// Dial connects to a Tacview real-time telemetry server at address,
// performs the handshake (sending password if non-empty), and starts
// streaming decoded lines.
func Dial(ctx context.Context, address, password string, log *logrus.Logger) (*Client, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	entry := log.WithField("component", "tacview").WithField("address", address)

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	reader, err := handshake(conn, password)
	if err != nil {
		conn.Close()
		return nil, err
	}

	c := &Client{
		conn:  conn,
		lines: make(chan string, 256),
		errc:  make(chan error, 1),
		log:   entry,
	}
	go c.readLoop(reader)
	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	return c, nil
}

// handshake returns the reader it consumed the reply from, so that any
// stream bytes it buffered past the reply are not lost to readLoop.
func handshake(conn net.Conn, password string) (*bufio.Reader, error) {
	hostname, _ := os.Hostname()
	greeting := protocolHandshake + hostname + "\n" + password + handshakeTerm
	if _, err := conn.Write([]byte(greeting)); err != nil {
		return nil, fmt.Errorf("send handshake: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer conn.SetReadDeadline(time.Time{})

	reader := bufio.NewReader(conn)
	reply, err := reader.ReadString(0)
	if err != nil {
		return nil, fmt.Errorf("read handshake reply: %w", err)
	}
	if !strings.HasPrefix(reply, "XtraLib.Stream.0") {
		return nil, fmt.Errorf("unexpected handshake reply: %q", reply)
	}
	return reader, nil
}

func (c *Client) readLoop(r *bufio.Reader) {
	defer close(c.lines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\x00\r")
		if line == "" {
			continue
		}
		c.lines <- line
	}
	if err := scanner.Err(); err != nil {
		c.lastErr = err
		c.log.WithError(err).Warn("tacview stream ended")
	}
}

// Lines returns the channel of decoded ACMI lines.
func (c *Client) Lines() <-chan string {
	return c.lines
}

// Err reports the error that ended the stream, if any. Call after Lines
// is closed.
func (c *Client) Err() error {
	return c.lastErr
}

// Close terminates the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
