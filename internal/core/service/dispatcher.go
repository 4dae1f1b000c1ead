package service

import (
	"context"
	"fmt"
	"time"

	"actbot/internal/core/domain"
	"actbot/internal/core/port"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 30 * time.Second

// Dispatcher runs the outbound half of the engine: validate against the
// catalog, register a ticket, put the envelope on the wire. Any failure on
// that path reaches the caller synchronously and leaves no pending ticket
// behind.
type Dispatcher struct {
	catalog   port.Catalog
	store     *TicketStore
	transport port.Transport
	timeout   time.Duration
	l         *zerolog.Logger
}

func NewDispatcher(catalog port.Catalog, store *TicketStore, transport port.Transport,
	timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	l := log.With().Str("service", "dispatcher").Logger()

	return &Dispatcher{
		catalog:   catalog,
		store:     store,
		transport: transport,
		timeout:   timeout,
		l:         &l,
	}
}

// Dispatch validates and sends the named command and returns a handle for
// the eventual outcome. The ticket deadline is the dispatcher's default
// timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args domain.Args) (*Handle, error) {
	return d.DispatchTimeout(ctx, name, args, d.timeout)
}

// DispatchTimeout is Dispatch with a per-call deadline override. A zero or
// negative timeout falls back to the default.
func (d *Dispatcher) DispatchTimeout(ctx context.Context, name string, args domain.Args,
	timeout time.Duration) (*Handle, error) {
	validated, err := d.catalog.Validate(name, args)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", name, err)
	}

	spec, _ := d.catalog.Spec(name)

	if timeout <= 0 {
		timeout = d.timeout
	}

	ticket, err := d.store.Register(name, validated, time.Now().Add(timeout))
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", name, err)
	}

	cmd := domain.OutboundCommand{
		Type: domain.EnvelopeTypeCommand,
		Name: name,
		Args: validated,
	}

	if err := d.transport.Send(ctx, cmd); err != nil {
		d.store.Resolve(ticket, domain.Outcome{State: domain.StateFailed, Error: err.Error()})
		return nil, fmt.Errorf("sending %s: %w", name, err)
	}

	d.l.Debug().Str("ticket", ticket.ID().String()).Str("command", name).
		Str("action", spec.Action).Msg("command dispatched")

	return &Handle{ticket: ticket, store: d.store}, nil
}
