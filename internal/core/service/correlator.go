package service

import (
	"context"

	"actbot/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Correlator binds untagged response envelopes to pending tickets. An
// envelope carries only the command name, so the oldest pending same-named
// ticket wins. That the backend answers same-named commands in submission
// order is an assumption inherited from the wire format itself.
type Correlator struct {
	store     *TicketStore
	responses <-chan domain.ResponseEnvelope
	l         *zerolog.Logger
}

func NewCorrelator(store *TicketStore, responses <-chan domain.ResponseEnvelope) *Correlator {
	l := log.With().Str("service", "correlator").Logger()

	return &Correlator{
		store:     store,
		responses: responses,
		l:         &l,
	}
}

// Run consumes the responses channel until it closes or ctx is done. Each
// envelope is fully settled before the next is read, preserving arrival
// order.
func (c *Correlator) Run(ctx context.Context) {
	c.l.Debug().Msg("correlator running")

	for {
		select {
		case <-ctx.Done():
			c.l.Debug().Msg("correlator stopped by context")
			return
		case env, ok := <-c.responses:
			if !ok {
				c.l.Debug().Msg("responses channel closed, correlator stopping")
				return
			}

			c.settle(env)
		}
	}
}

func (c *Correlator) settle(env domain.ResponseEnvelope) {
	if env.CommandName == "" {
		c.l.Warn().Msg("dropping response without command name")
		return
	}

	out := domain.Outcome{State: domain.StateResolved, Data: env.Data}
	if !env.Success {
		out = domain.Outcome{State: domain.StateFailed, Data: env.Data, Error: env.Error}
	}

	// Oldest first. A candidate can settle concurrently via deadline or
	// cancel; losing that race moves the response to the next one in line.
	for _, ticket := range c.store.Candidates(env.CommandName) {
		if c.store.Resolve(ticket, out) {
			c.l.Debug().Str("ticket", ticket.ID().String()).Str("command", env.CommandName).
				Bool("success", env.Success).Msg("response correlated")
			return
		}
	}

	c.l.Debug().Str("command", env.CommandName).Bool("success", env.Success).
		Msg("orphaned response dropped")
}
