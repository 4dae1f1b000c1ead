package service

import (
	"sync"
	"time"

	"actbot/internal/core/domain"

	"github.com/gofrs/uuid/v5"
)

// Ticket is one outstanding command invocation. It leaves the pending state
// exactly once; every later transition attempt is a no-op.
type Ticket struct {
	id        uuid.UUID
	name      string
	args      domain.Args
	seq       uint64
	createdAt time.Time
	deadline  time.Time

	mu      sync.Mutex
	state   domain.TicketState
	outcome domain.Outcome
	timer   *time.Timer
	done    chan struct{}
}

func (t *Ticket) ID() uuid.UUID {
	return t.id
}

func (t *Ticket) Name() string {
	return t.name
}

func (t *Ticket) Args() domain.Args {
	return t.args
}

// Seq is the registration order across all names, the tie-break between
// tickets created in the same instant.
func (t *Ticket) Seq() uint64 {
	return t.seq
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) Deadline() time.Time {
	return t.deadline
}

func (t *Ticket) State() domain.TicketState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Outcome returns the terminal outcome, or false while still pending.
func (t *Ticket) Outcome() (domain.Outcome, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == domain.StatePending {
		return domain.Outcome{State: domain.StatePending}, false
	}

	return t.outcome, true
}

// Done is closed once the ticket reaches a terminal state.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// transition moves the ticket into a terminal state and reports whether this
// call won. The outcome is recorded before done closes, so readers woken by
// Done always observe it.
func (t *Ticket) transition(out domain.Outcome) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != domain.StatePending {
		return false
	}

	t.state = out.State
	t.outcome = out

	if t.timer != nil {
		t.timer.Stop()
	}

	close(t.done)

	return true
}

// startExpiry arms the deadline timer, unless the ticket settled between
// registration and this call.
func (t *Ticket) startExpiry(expire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != domain.StatePending {
		return
	}

	t.timer = time.AfterFunc(time.Until(t.deadline), expire)
}
