package service

import (
	"context"

	"actbot/internal/core/domain"

	"github.com/gofrs/uuid/v5"
)

// Handle is the caller's future for one dispatched command.
type Handle struct {
	ticket *Ticket
	store  *TicketStore
}

// ID returns the ticket's internal correlation key. It never goes on the
// wire.
func (h *Handle) ID() uuid.UUID {
	return h.ticket.ID()
}

// Await blocks until the command settles or ctx is done. On ctx expiry the
// ticket stays live and its own deadline still applies.
func (h *Handle) Await(ctx context.Context) (domain.Outcome, error) {
	select {
	case <-h.ticket.Done():
		out, _ := h.ticket.Outcome()
		return out, nil
	case <-ctx.Done():
		return domain.Outcome{State: domain.StatePending}, ctx.Err()
	}
}

// Poll reports the outcome without blocking. The bool is false while the
// command is still pending.
func (h *Handle) Poll() (domain.Outcome, bool) {
	return h.ticket.Outcome()
}

// Cancel settles the ticket as Cancelled and drops it from the store. It is
// purely local, the backend may still execute the command. Returns false if
// the ticket had already settled.
func (h *Handle) Cancel() bool {
	return h.store.Cancel(h.ticket)
}
