// Command tacenrich ingests a Tacview ACMI telemetry stream, enriches
// every object with classification, ECEF-derived velocity, and
// parent/impact contact matching, and fans the result out to a
// relational sink, an optional live dashboard, and an optional CoT
// multicast feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rhino11/tacenrich/internal/config"
	"github.com/rhino11/tacenrich/internal/contact"
	"github.com/rhino11/tacenrich/internal/cot"
	"github.com/rhino11/tacenrich/internal/httpapi"
	"github.com/rhino11/tacenrich/internal/session"
	"github.com/rhino11/tacenrich/internal/sink"
	"github.com/rhino11/tacenrich/internal/sink/sqlitesink"
	"github.com/rhino11/tacenrich/internal/tacarchive"
	"github.com/rhino11/tacenrich/internal/tacfile"
	"github.com/rhino11/tacenrich/internal/tacview"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("received interrupt signal, shutting down")
		cancel()
	}()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("tacenrich exited with an error")
	}
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(level)
	}
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	matcher := matcherFromConfig(cfg.Matcher)
	sess := session.NewWithMatcher(time.Now().UnixNano(), matcher)

	var st sink.Sink
	if cfg.Sink.Driver == "sqlite" {
		s, err := sqlitesink.Open(cfg.Sink.DSN, sess.ID)
		if err != nil {
			return fmt.Errorf("open sink: %w", err)
		}
		defer s.Close()
		st = s
	}

	var dashboard *httpapi.Server
	if cfg.HTTP.Enabled {
		dashboard = httpapi.NewServer(sess.Store, log)
		go func() {
			if err := dashboard.ListenAndServe(cfg.HTTP.Addr); err != nil {
				log.WithError(err).Warn("dashboard server stopped")
			}
		}()
	}

	var broadcaster *cot.MulticastPublisher
	if cfg.CoT.Enabled {
		host, port, err := splitHostPort(cfg.CoT.Endpoint)
		if err != nil {
			return fmt.Errorf("invalid cot.endpoint: %w", err)
		}
		broadcaster, err = cot.NewMulticastPublisher(host, port, cot.StaleDurationFromMatcher(matcher), log)
		if err != nil {
			return fmt.Errorf("start cot broadcaster: %w", err)
		}
		defer broadcaster.Close()
	}

	lines, stop, err := openSource(ctx, cfg.Tacview, log)
	if err != nil {
		return err
	}
	defer stop()

	return pump(sess, lines, st, dashboard, broadcaster, log)
}

// lineSource abstracts the three ways an ACMI stream can be consumed:
// a live TCP connection, a flat .acmi file, or a .zip.acmi archive.
type lineSource interface {
	Next() (line string, ok bool, err error)
	Close() error
}

func openSource(ctx context.Context, cfg config.TacviewConfig, log *logrus.Logger) (<-chan string, func(), error) {
	switch cfg.Mode {
	case "tcp":
		client, err := tacview.Dial(ctx, cfg.Address, cfg.Password, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to tacview server: %w", err)
		}
		return client.Lines(), func() { client.Close() }, nil
	case "file":
		r, err := tacfile.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return drain(r), func() { r.Close() }, nil
	case "zip":
		r, err := tacarchive.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return drain(r), func() { r.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported tacview mode: %s", cfg.Mode)
	}
}

// drain adapts a pull-style lineSource (file/archive readers) to the same
// channel interface tacview.Client delivers, so the pump loop below does
// not need to know which kind of source it is reading.
func drain(src lineSource) <-chan string {
	out := make(chan string, 256)
	go func() {
		defer close(out)
		for {
			line, ok, err := src.Next()
			if err != nil || !ok {
				return
			}
			out <- line
		}
	}()
	return out
}

func pump(sess *session.Session, lines <-chan string, st sink.Sink, dashboard *httpapi.Server, broadcaster *cot.MulticastPublisher, log *logrus.Logger) error {
	ctx := context.Background()
	for line := range lines {
		rec, impactDetected, err := sess.ProcessLine(line)
		if err != nil {
			log.WithError(err).WithField("line", line).Warn("failed to parse ACMI line")
			continue
		}
		if rec == nil {
			continue
		}
		if impactDetected {
			log.WithField("tac_id", rec.TacID).Info("impact detected")
		}

		if st != nil {
			if err := st.Write(ctx, rec); err != nil {
				log.WithError(err).WithField("tac_id", rec.TacID).Warn("failed to write object to sink")
			}
		}
		if dashboard != nil {
			dashboard.Broadcast(rec)
		}
		if broadcaster != nil {
			if err := broadcaster.PublishObject(rec); err != nil {
				log.WithError(err).WithField("tac_id", rec.TacID).Warn("failed to publish CoT event")
			}
		}
	}
	return nil
}

// matcherFromConfig builds a contact.Matcher from the driver config,
// falling back to the package default for any tunable left at its zero
// value (config.MatcherConfig's documented "unset" sentinel).
func matcherFromConfig(cfg config.MatcherConfig) contact.Matcher {
	m := contact.DefaultMatcher()
	if cfg.RecencyWindowSeconds > 0 {
		m.RecencyWindowSeconds = cfg.RecencyWindowSeconds
	}
	if cfg.ParentAcceptMeters > 0 {
		m.ParentAcceptMeters = cfg.ParentAcceptMeters
	}
	return m
}

func splitHostPort(endpoint string) (host string, port int, err error) {
	h, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return "", 0, err
	}
	p, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	return h, p, nil
}
