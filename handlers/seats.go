// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danielhkuo/escrutinio/allocation"
	"github.com/danielhkuo/escrutinio/db"
	"github.com/danielhkuo/escrutinio/models"
)

// ErrUnsupportedFormula is returned for formulas with no allocator
var ErrUnsupportedFormula = errors.New("unsupported seat allocation formula")

// ComputeSeatAllocation loads an election's tallies and distributes its seats.
// A missing election surfaces as a wrapped sql.ErrNoRows.
func ComputeSeatAllocation(q querier, electionID string) (models.ElectionResults, error) {
	election, err := getElection(q, electionID)
	if err != nil {
		return models.ElectionResults{}, fmt.Errorf("failed to load election: %w", err)
	}

	formula, err := getFormula(q, election.FormulaID)
	if err != nil {
		return models.ElectionResults{}, err
	}
	if formula.Method != db.MethodDHondt {
		return models.ElectionResults{}, fmt.Errorf("%w: %s", ErrUnsupportedFormula, formula.Method)
	}

	parties, err := getPartyTallies(q, electionID)
	if err != nil {
		return models.ElectionResults{}, fmt.Errorf("failed to get party tallies: %w", err)
	}

	counts := make([]allocation.VoteCount, len(parties))
	var totalVotes int64
	for i, p := range parties {
		counts[i] = allocation.VoteCount{PartyID: p.PartyID, Votes: p.Votes}
		totalVotes += p.Votes
	}

	// Stored tallies passed the same checks on the way in
	if err := allocation.Validate(counts, election.Seats); err != nil {
		return models.ElectionResults{}, fmt.Errorf("stored tallies are invalid: %w", err)
	}
	result := allocation.Allocate(counts, election.Seats)

	for i := range parties {
		parties[i].Seats = result.SeatsFor(parties[i].PartyID)
	}
	sort.Slice(parties, func(i, j int) bool {
		a, b := parties[i], parties[j]
		if a.Seats != b.Seats {
			return a.Seats > b.Seats
		}
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		return a.PartyID < b.PartyID
	})

	return models.ElectionResults{
		ElectionID:     election.ID,
		Seats:          election.Seats,
		Formula:        formula,
		TotalVotes:     totalVotes,
		AllocatedSeats: result.Total(),
		Parties:        parties,
		Quotients:      quotientRows(result.Quotients, election.Seats),
	}, nil
}

// quotientRows keeps the top seats*2 quotients for display.
// Winning rows rank first, so all of them survive the cut.
func quotientRows(quotients []allocation.Quotient, seats int) []models.QuotientRow {
	limit := seats * 2
	if limit > len(quotients) {
		limit = len(quotients)
	}

	rows := make([]models.QuotientRow, 0, limit)
	for _, q := range quotients[:limit] {
		rows = append(rows, models.QuotientRow{
			PartyID: q.PartyID,
			Divisor: q.Divisor,
			Value:   q.Value(),
			Rank:    q.Rank,
			Winning: q.Winning,
		})
	}
	return rows
}

// getPartyTallies returns every party with a vote record in the election
func getPartyTallies(q querier, electionID string) ([]models.PartySeats, error) {
	rows, err := q.Query(`
		SELECT p.id, p.name, p.abbreviation, v.votes
		FROM vote_record v
		JOIN party p ON p.id = v.party_id
		WHERE v.election_id = $1
		ORDER BY p.id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parties := []models.PartySeats{}
	for rows.Next() {
		var ps models.PartySeats
		if err := rows.Scan(&ps.PartyID, &ps.Name, &ps.Abbreviation, &ps.Votes); err != nil {
			return nil, err
		}
		parties = append(parties, ps)
	}
	return parties, rows.Err()
}
