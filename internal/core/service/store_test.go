package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"actbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterKeepsArrivalOrder(t *testing.T) {
	s := NewTicketStore()

	first, err := s.Register("GET_MSG", domain.Args{"message_id": int64(1)}, time.Now().Add(time.Minute))
	require.NoError(t, err)
	second, err := s.Register("GET_MSG", domain.Args{"message_id": int64(2)}, time.Now().Add(time.Minute))
	require.NoError(t, err)

	candidates := s.Candidates("GET_MSG")
	require.Len(t, candidates, 2)
	assert.Same(t, first, candidates[0])
	assert.Same(t, second, candidates[1])
	assert.Less(t, first.Seq(), second.Seq())
}

func TestConcurrentRegisterKeepsQueueInSeqOrder(t *testing.T) {
	s := NewTicketStore()
	deadline := time.Now().Add(time.Minute)

	const (
		rounds = 100
		burst  = 16
	)

	for range rounds {
		start := make(chan struct{})

		var wg sync.WaitGroup

		for range burst {
			wg.Add(1)

			go func() {
				defer wg.Done()
				<-start

				_, err := s.Register("GET_MSG", nil, deadline)
				assert.NoError(t, err)
			}()
		}

		close(start)
		wg.Wait()
	}

	candidates := s.Candidates("GET_MSG")
	require.Len(t, candidates, rounds*burst)

	for i := 1; i < len(candidates); i++ {
		prev, cur := candidates[i-1], candidates[i]
		require.Less(t, prev.Seq(), cur.Seq(),
			"position %d holds seq %d behind seq %d", i, cur.Seq(), prev.Seq())
		require.False(t, cur.CreatedAt().Before(prev.CreatedAt()),
			"position %d was created before its predecessor", i)
	}
}

func TestCandidatesAreScopedByName(t *testing.T) {
	s := NewTicketStore()

	_, err := s.Register("GET_MSG", nil, time.Now().Add(time.Minute))
	require.NoError(t, err)
	login, err := s.Register("GET_LOGIN_INFO", nil, time.Now().Add(time.Minute))
	require.NoError(t, err)

	candidates := s.Candidates("GET_LOGIN_INFO")
	require.Len(t, candidates, 1)
	assert.Same(t, login, candidates[0])

	assert.Empty(t, s.Candidates("GET_FRIEND_LIST"))
	assert.Equal(t, 2, s.PendingCount())
}

func TestResolveSettlesExactlyOnce(t *testing.T) {
	s := NewTicketStore()

	ticket, err := s.Register("GET_MSG", nil, time.Now().Add(time.Minute))
	require.NoError(t, err)

	assert.True(t, s.Resolve(ticket, domain.Outcome{State: domain.StateResolved}))
	assert.False(t, s.Resolve(ticket, domain.Outcome{State: domain.StateFailed, Error: "late"}))
	assert.False(t, s.Cancel(ticket))

	out, settled := ticket.Outcome()
	require.True(t, settled)
	assert.Equal(t, domain.StateResolved, out.State)
	assert.Empty(t, out.Error)

	assert.Zero(t, s.PendingCount())
	assert.Empty(t, s.Candidates("GET_MSG"))
}

func TestConcurrentSettlementHasOneWinner(t *testing.T) {
	s := NewTicketStore()

	ticket, err := s.Register("GET_MSG", nil, time.Now().Add(time.Minute))
	require.NoError(t, err)

	const attempts = 64

	var wg sync.WaitGroup

	var wins atomic.Int32

	for i := range attempts {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			var won bool
			if n%2 == 0 {
				won = s.Resolve(ticket, domain.Outcome{State: domain.StateResolved})
			} else {
				won = s.Cancel(ticket)
			}

			if won {
				wins.Add(1)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())

	_, settled := ticket.Outcome()
	assert.True(t, settled)
	assert.Zero(t, s.PendingCount())
}

func TestResolveAndDeadlineRaceHasOneWinner(t *testing.T) {
	s := NewTicketStore()
	resolved := domain.Outcome{State: domain.StateResolved}

	const rounds = 100

	for i := range rounds {
		// Deadlines at or barely past now put the expiry timer mid-flight
		// while Resolve runs.
		deadline := time.Now().Add(time.Duration(i%4*100) * time.Microsecond)

		ticket, err := s.Register("GET_MSG", nil, deadline)
		require.NoError(t, err)

		won := s.Resolve(ticket, resolved)

		select {
		case <-ticket.Done():
		case <-time.After(time.Second):
			t.Fatal("ticket never settled")
		}

		out, settled := ticket.Outcome()
		require.True(t, settled)

		if won {
			assert.Equal(t, domain.StateResolved, out.State)
		} else {
			assert.Equal(t, domain.StateTimedOut, out.State)
		}

		assert.False(t, s.Resolve(ticket, resolved))
		assert.False(t, s.Cancel(ticket))
	}

	assert.Zero(t, s.PendingCount())
	assert.Empty(t, s.Candidates("GET_MSG"))
}

func TestDeadlineExpiresTicket(t *testing.T) {
	s := NewTicketStore()

	ticket, err := s.Register("GET_MSG", nil, time.Now().Add(50*time.Millisecond))
	require.NoError(t, err)

	select {
	case <-ticket.Done():
	case <-time.After(time.Second):
		t.Fatal("ticket never expired")
	}

	out, settled := ticket.Outcome()
	require.True(t, settled)
	assert.Equal(t, domain.StateTimedOut, out.State)
	assert.Zero(t, s.PendingCount())
}

func TestPastDeadlineExpiresImmediately(t *testing.T) {
	s := NewTicketStore()

	ticket, err := s.Register("GET_MSG", nil, time.Now().Add(-time.Millisecond))
	require.NoError(t, err)

	select {
	case <-ticket.Done():
	case <-time.After(time.Second):
		t.Fatal("ticket never expired")
	}

	out, _ := ticket.Outcome()
	assert.Equal(t, domain.StateTimedOut, out.State)
}

func TestResolveStopsDeadlineTimer(t *testing.T) {
	s := NewTicketStore()

	ticket, err := s.Register("GET_MSG", nil, time.Now().Add(30*time.Millisecond))
	require.NoError(t, err)

	require.True(t, s.Resolve(ticket, domain.Outcome{State: domain.StateResolved}))

	// Past the original deadline the outcome must not have flipped.
	time.Sleep(60 * time.Millisecond)

	out, _ := ticket.Outcome()
	assert.Equal(t, domain.StateResolved, out.State)
}

func TestCandidatesPruneSettledLeftovers(t *testing.T) {
	s := NewTicketStore()

	stale, err := s.Register("GET_MSG", nil, time.Now().Add(time.Minute))
	require.NoError(t, err)
	live, err := s.Register("GET_MSG", nil, time.Now().Add(time.Minute))
	require.NoError(t, err)

	// Settle without removal, as a racing path would leave it.
	require.True(t, stale.transition(domain.Outcome{State: domain.StateCancelled}))

	candidates := s.Candidates("GET_MSG")
	require.Len(t, candidates, 1)
	assert.Same(t, live, candidates[0])

	q := s.queue("GET_MSG")
	q.mu.Lock()
	assert.Len(t, q.tickets, 1)
	q.mu.Unlock()
}

func TestTicketAccessors(t *testing.T) {
	s := NewTicketStore()

	deadline := time.Now().Add(time.Minute)
	args := domain.Args{"user_id": int64(7)}

	ticket, err := s.Register("GROUP_KICK", args, deadline)
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", ticket.ID().String())
	assert.Equal(t, "GROUP_KICK", ticket.Name())
	assert.Equal(t, args, ticket.Args())
	assert.Equal(t, deadline, ticket.Deadline())
	assert.WithinDuration(t, time.Now(), ticket.CreatedAt(), time.Second)
	assert.Equal(t, domain.StatePending, ticket.State())

	_, settled := ticket.Outcome()
	assert.False(t, settled)
}
