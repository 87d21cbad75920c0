// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package allocation distributes legislative seats among parties.

# D'Hondt

Allocate implements the largest quotient (D'Hondt) method:

	result := allocation.Allocate([]allocation.VoteCount{
		{PartyID: "a", Votes: 100},
		{PartyID: "b", Votes: 50},
	}, 3)
	// result.Seats == map[string]int{"a": 2, "b": 1}

Every party with positive votes contributes one quotient per seat
(votes/1, votes/2, ... votes/seats). The pooled quotients are ranked and
the top `seats` of them win. Parties with zero votes produce no
quotients and never win a seat.

# Ordering

Quotients are compared exactly by cross multiplication, never as floats.
Equal quotients are ordered by larger party total, then smaller divisor,
then ascending party id, so the result never depends on input order.

# Validation

Allocate trusts its input. Callers at the boundary run Validate first:

	if err := allocation.Validate(votes, seats); err != nil {
		// 400
	}
*/
package allocation
