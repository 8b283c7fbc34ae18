package tacview

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"
)

func serveOneHandshake(t *testing.T, ln net.Listener, body []string) {
	t.Helper()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		reader := bufio.NewReader(conn)
		if _, err := reader.ReadString(0); err != nil {
			return
		}
		conn.Write([]byte("XtraLib.Stream.0\nTacview.RealTimeTelemetry.0\ntest-server\x00"))

		for _, line := range body {
			conn.Write([]byte(line + "\n"))
		}
	}()
}

func TestDialAndReceiveLines(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	serveOneHandshake(t, ln, []string{
		"FileType=text/acmi/tacview",
		"0,ReferenceTime=2024-01-01T00:00:00.000000Z",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := Dial(ctx, ln.Addr().String(), "", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	var got []string
	for line := range c.Lines() {
		got = append(got, line)
		if len(got) == 2 {
			break
		}
	}

	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(got), got)
	}
	if got[1] != "0,ReferenceTime=2024-01-01T00:00:00.000000Z" {
		t.Fatalf("got[1] = %q", got[1])
	}
}

func TestDialFailsOnUnreachableAddress(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if _, err := Dial(ctx, "127.0.0.1:1", "", nil); err == nil {
		t.Fatal("expected dial error for unreachable address")
	}
}
