// Package publish emits parsed flights onto NATS so downstream consumers
// (dashboards, archivers) pick them up as they are parsed. It lives
// entirely outside the parsing core; the core itself performs no network
// I/O.
package publish

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/render"
)

// Subject is the NATS subject parsed flights are published on.
const Subject = "flightplan.parsed"

// Publisher wraps a NATS connection.
type Publisher struct {
	nc *nats.Conn
}

// Connect dials the NATS server at url (nats.DefaultURL when empty).
func Connect(url string) (*Publisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url,
		nats.Name("flightplan_parser"),
		nats.Timeout(10*time.Second),
		nats.MaxReconnects(5),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{nc: nc}, nil
}

// Close flushes pending messages and drops the connection.
func (p *Publisher) Close() {
	_ = p.nc.Flush()
	p.nc.Close()
}

// Flight publishes one parsed flight as its exported form.
func (p *Publisher) Flight(f *plan.Flight) error {
	data, err := render.Export(f)
	if err != nil {
		return err
	}
	if err := p.nc.Publish(Subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", f.Filename, err)
	}
	return nil
}
