// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package allocation

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
)

// MaxVotes caps a single party tally so election totals stay within int64
const MaxVotes int64 = 1_000_000_000_000

var (
	// ErrNegativeSeats is returned when the seat count is below zero
	ErrNegativeSeats = errors.New("seat count must not be negative")
	// ErrNegativeVotes is returned for a tally below zero
	ErrNegativeVotes = errors.New("vote count must not be negative")
	// ErrTooManyVotes is returned for a tally above MaxVotes
	ErrTooManyVotes = errors.New("vote count exceeds maximum")
	// ErrDuplicateParty is returned when a party appears twice in one batch
	ErrDuplicateParty = errors.New("party listed more than once")
	// ErrMissingParty is returned for a tally with an empty party id
	ErrMissingParty = errors.New("party id is required")
)

// VoteCount is the tally of one party in one election
type VoteCount struct {
	PartyID string
	Votes   int64
}

// Quotient is one candidate slot: Votes / Divisor for a party
type Quotient struct {
	PartyID string
	Votes   int64
	Divisor int
	Rank    int // 1-indexed position in the pooled ranking
	Winning bool
}

// Value returns the quotient as a float for display only.
func (q Quotient) Value() float64 {
	return float64(q.Votes) / float64(q.Divisor)
}

// Result holds seats per party and the ranked quotient pool
type Result struct {
	Seats     map[string]int
	Quotients []Quotient
}

// SeatsFor returns the seats won by a party (0 when absent)
func (r Result) SeatsFor(partyID string) int {
	return r.Seats[partyID]
}

// Total returns the number of seats handed out
func (r Result) Total() int {
	total := 0
	for _, n := range r.Seats {
		total += n
	}
	return total
}

// Winners returns the winning quotients in rank order
func (r Result) Winners() []Quotient {
	var winners []Quotient
	for _, q := range r.Quotients {
		if !q.Winning {
			break
		}
		winners = append(winners, q)
	}
	return winners
}

// Validate checks the inputs Allocate assumes
func Validate(votes []VoteCount, seats int) error {
	if seats < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSeats, seats)
	}

	seen := make(map[string]struct{}, len(votes))
	for _, v := range votes {
		if v.PartyID == "" {
			return ErrMissingParty
		}
		if v.Votes < 0 {
			return fmt.Errorf("%w: party %s has %d", ErrNegativeVotes, v.PartyID, v.Votes)
		}
		if v.Votes > MaxVotes {
			return fmt.Errorf("%w: party %s has %d, limit is %d", ErrTooManyVotes, v.PartyID, v.Votes, MaxVotes)
		}
		if _, dup := seen[v.PartyID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateParty, v.PartyID)
		}
		seen[v.PartyID] = struct{}{}
	}

	return nil
}

// Allocate distributes seats using the D'Hondt method.
// Inputs are assumed valid (see Validate).
func Allocate(votes []VoteCount, seats int) Result {
	result := Result{Seats: make(map[string]int)}
	if seats <= 0 {
		return result
	}

	// Pool quotients for every party that has votes
	pool := make([]Quotient, 0, len(votes)*seats)
	for _, v := range votes {
		if v.Votes <= 0 {
			continue
		}
		result.Seats[v.PartyID] = 0
		for d := 1; d <= seats; d++ {
			pool = append(pool, Quotient{PartyID: v.PartyID, Votes: v.Votes, Divisor: d})
		}
	}

	sort.Slice(pool, func(i, j int) bool {
		return ranksBefore(pool[i], pool[j])
	})

	for i := range pool {
		pool[i].Rank = i + 1
		if i < seats {
			pool[i].Winning = true
			result.Seats[pool[i].PartyID]++
		}
	}

	result.Quotients = pool
	return result
}

// ranksBefore orders quotients by value desc, then party total desc,
// then divisor asc, then party id asc.
func ranksBefore(a, b Quotient) bool {
	// a.Votes/a.Divisor vs b.Votes/b.Divisor without division.
	// Cross products are taken in 128 bits so no tally can overflow them.
	if c := compareProducts(a.Votes, b.Divisor, b.Votes, a.Divisor); c != 0 {
		return c > 0
	}
	if a.Votes != b.Votes {
		return a.Votes > b.Votes
	}
	if a.Divisor != b.Divisor {
		return a.Divisor < b.Divisor
	}
	return a.PartyID < b.PartyID
}

// compareProducts returns the sign of x1*y1 - x2*y2 for non-negative operands
func compareProducts(x1 int64, y1 int, x2 int64, y2 int) int {
	hi1, lo1 := bits.Mul64(uint64(x1), uint64(y1))
	hi2, lo2 := bits.Mul64(uint64(x2), uint64(y2))
	switch {
	case hi1 != hi2:
		if hi1 > hi2 {
			return 1
		}
		return -1
	case lo1 != lo2:
		if lo1 > lo2 {
			return 1
		}
		return -1
	}
	return 0
}
