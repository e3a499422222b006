// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package natsconn provides the NATS connection factory and JetStream stream
// provisioning used by the catalog event publisher.
//
// # Architecture
//
// Event publishing is optional. When no URL is configured the caller skips
// this package entirely and wires a no-op publisher instead.
package natsconn

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Opinionated reconnect defaults.
const (
	defaultMaxReconnects = 5
	defaultReconnectWait = 2 * time.Second
	defaultStreamMaxAge  = 7 * 24 * time.Hour
)

// Options configures the NATS connection behaviour.
// Zero values fall back to the package defaults.
type Options struct {
	URL           string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
}

// Connect establishes a NATS connection with the configured retry policy.
// It fails fast so the caller can abort startup.
func Connect(opts Options, logger *slog.Logger) (*nats.Conn, error) {
	if opts.URL == "" {
		return nil, errors.New("natsconn: URL is required")
	}
	if opts.MaxReconnects == 0 {
		opts.MaxReconnects = defaultMaxReconnects
	}
	if opts.ReconnectWait == 0 {
		opts.ReconnectWait = defaultReconnectWait
	}

	connection, err := nats.Connect(opts.URL,
		nats.Name(opts.Name),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.RetryOnFailedConnect(false),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			logger.Info("nats_reconnected", slog.String("url", conn.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("natsconn: connect %s (max_reconnects=%d, wait=%s): %w",
			opts.URL, opts.MaxReconnects, opts.ReconnectWait, err)
	}

	logger.Info("nats connected", slog.String("url", connection.ConnectedUrl()))
	return connection, nil
}

// StreamManager is the subset of [nats.JetStreamContext] needed to provision a stream.
type StreamManager interface {
	StreamInfo(stream string, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	AddStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	UpdateStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error)
}

// EnsureStream creates the stream, or adds subject to an existing stream that
// does not cover it yet.
func EnsureStream(js StreamManager, name, subject string) error {
	info, err := js.StreamInfo(name)
	if err == nil {
		for _, existing := range info.Config.Subjects {
			if existing == subject {
				return nil
			}
		}
		cfg := info.Config
		cfg.Subjects = append(cfg.Subjects, subject)
		if _, err := js.UpdateStream(&cfg); err != nil {
			return fmt.Errorf("natsconn: update stream %s: %w", name, err)
		}
		return nil
	}

	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("natsconn: stream info %s: %w", name, err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
		MaxAge:   defaultStreamMaxAge,
	})
	if err != nil {
		return fmt.Errorf("natsconn: add stream %s: %w", name, err)
	}
	return nil
}

// StatusReporter is the subset of [nats.Conn] used by readiness checks.
type StatusReporter interface {
	Status() nats.Status
}

// Ping reports an error unless the connection is currently established.
func Ping(conn StatusReporter) error {
	if status := conn.Status(); status != nats.CONNECTED {
		return fmt.Errorf("natsconn: connection is %s", status)
	}
	return nil
}
