package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"actbot/internal/core/domain"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// TicketStore tracks outstanding invocations grouped by command name. Each
// name keeps its own FIFO, so correlation only ever walks same-named
// tickets.
type TicketStore struct {
	mu     sync.RWMutex
	queues map[string]*pendingQueue
	seq    atomic.Uint64
}

type pendingQueue struct {
	mu      sync.Mutex
	tickets []*Ticket
}

func NewTicketStore() *TicketStore {
	return &TicketStore{queues: make(map[string]*pendingQueue)}
}

// Register creates a pending ticket, appends it to its name's queue and arms
// the deadline timer.
func (s *TicketStore) Register(name string, args domain.Args, deadline time.Time) (*Ticket, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generating ticket id: %w", err)
	}

	t := &Ticket{
		id:       id,
		name:     name,
		args:     args,
		deadline: deadline,
		state:    domain.StatePending,
		done:     make(chan struct{}),
	}

	q := s.queue(name)
	q.mu.Lock()
	// Stamped under the queue lock so queue order always equals seq order,
	// even when same-named registrations race.
	t.seq = s.seq.Add(1)
	t.createdAt = time.Now()
	q.tickets = append(q.tickets, t)
	q.mu.Unlock()

	t.startExpiry(func() { s.expire(t) })

	log.Debug().Str("ticket", id.String()).Str("command", name).
		Time("deadline", deadline).Msg("ticket registered")

	return t, nil
}

// Candidates returns the pending tickets for name, oldest first. Settled
// leftovers found along the way are pruned.
func (s *TicketStore) Candidates(name string) []*Ticket {
	s.mu.RLock()
	q, ok := s.queues[name]
	s.mu.RUnlock()

	if !ok {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.tickets[:0]

	var pending []*Ticket

	for _, t := range q.tickets {
		if _, settled := t.Outcome(); settled {
			continue
		}

		kept = append(kept, t)
		pending = append(pending, t)
	}

	q.tickets = kept

	return pending
}

// Resolve settles t with out and removes it from the store. It reports
// whether this call performed the transition.
func (s *TicketStore) Resolve(t *Ticket, out domain.Outcome) bool {
	if !t.transition(out) {
		return false
	}

	s.remove(t)

	return true
}

// Cancel settles t as Cancelled and removes it.
func (s *TicketStore) Cancel(t *Ticket) bool {
	if !t.transition(domain.Outcome{State: domain.StateCancelled}) {
		return false
	}

	s.remove(t)
	log.Debug().Str("ticket", t.id.String()).Str("command", t.name).Msg("ticket cancelled")

	return true
}

func (s *TicketStore) expire(t *Ticket) {
	if !t.transition(domain.Outcome{State: domain.StateTimedOut}) {
		return
	}

	s.remove(t)
	log.Debug().Str("ticket", t.id.String()).Str("command", t.name).Msg("ticket deadline expired")
}

// PendingCount reports the number of outstanding tickets across all names.
func (s *TicketStore) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0

	for _, q := range s.queues {
		q.mu.Lock()
		for _, t := range q.tickets {
			if _, settled := t.Outcome(); !settled {
				count++
			}
		}
		q.mu.Unlock()
	}

	return count
}

func (s *TicketStore) queue(name string) *pendingQueue {
	s.mu.RLock()
	q, ok := s.queues[name]
	s.mu.RUnlock()

	if ok {
		return q
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok = s.queues[name]; ok {
		return q
	}

	q = &pendingQueue{}
	s.queues[name] = q

	return q
}

func (s *TicketStore) remove(t *Ticket) {
	s.mu.RLock()
	q, ok := s.queues[t.name]
	s.mu.RUnlock()

	if !ok {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for i, cur := range q.tickets {
		if cur == t {
			q.tickets = append(q.tickets[:i], q.tickets[i+1:]...)
			return
		}
	}
}
