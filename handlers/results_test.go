// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/escrutinio/metrics"
	"github.com/danielhkuo/escrutinio/models"
	tu "github.com/danielhkuo/escrutinio/testutil"
)

func TestComputeSeatAllocation(t *testing.T) {
	conn := tu.SetupTestDB(t)

	electionID := tu.CreateTestElection(t, conn, "Congreso", 8)
	a := tu.CreateTestParty(t, conn, "Partido A", "A")
	b := tu.CreateTestParty(t, conn, "Partido B", "B")
	c := tu.CreateTestParty(t, conn, "Partido C", "C")
	d := tu.CreateTestParty(t, conn, "Partido D", "D")
	e := tu.CreateTestParty(t, conn, "Partido E", "E")
	tu.SetTestVotes(t, conn, electionID, a, 100000)
	tu.SetTestVotes(t, conn, electionID, b, 80000)
	tu.SetTestVotes(t, conn, electionID, c, 30000)
	tu.SetTestVotes(t, conn, electionID, d, 20000)
	tu.SetTestVotes(t, conn, electionID, e, 0)

	results, err := ComputeSeatAllocation(conn, electionID)
	require.NoError(t, err)

	assert.Equal(t, electionID, results.ElectionID)
	assert.Equal(t, 8, results.Seats)
	assert.Equal(t, 8, results.AllocatedSeats)
	assert.Equal(t, int64(230000), results.TotalVotes)
	assert.Equal(t, "dhondt", results.Formula.Method)

	require.Len(t, results.Parties, 5)
	got := map[string]int{}
	for _, p := range results.Parties {
		got[p.PartyID] = p.Seats
	}
	assert.Equal(t, map[string]int{a: 4, b: 3, c: 1, d: 0, e: 0}, got)

	// Sorted by seats, then votes
	assert.Equal(t, a, results.Parties[0].PartyID)
	assert.Equal(t, "Partido A", results.Parties[0].Name)
	assert.Equal(t, d, results.Parties[3].PartyID)
	assert.Equal(t, e, results.Parties[4].PartyID)

	// 4 parties with votes * 8 divisors, capped at 16 for display
	require.Len(t, results.Quotients, 16)
	winning := 0
	for i, q := range results.Quotients {
		assert.Equal(t, i+1, q.Rank)
		if q.Winning {
			winning++
		}
	}
	assert.Equal(t, 8, winning)
	assert.Equal(t, a, results.Quotients[0].PartyID)
	assert.Equal(t, 100000.0, results.Quotients[0].Value)
}

func TestComputeSeatAllocation_Edges(t *testing.T) {
	conn := tu.SetupTestDB(t)

	t.Run("no votes recorded", func(t *testing.T) {
		id := tu.CreateTestElection(t, conn, "Vacía", 5)
		results, err := ComputeSeatAllocation(conn, id)
		require.NoError(t, err)
		assert.Empty(t, results.Parties)
		assert.Empty(t, results.Quotients)
		assert.Zero(t, results.AllocatedSeats)
	})

	t.Run("zero seats", func(t *testing.T) {
		id := tu.CreateTestElection(t, conn, "Sin escaños", 0)
		p := tu.CreateTestParty(t, conn, "Único", "U")
		tu.SetTestVotes(t, conn, id, p, 500)

		results, err := ComputeSeatAllocation(conn, id)
		require.NoError(t, err)
		require.Len(t, results.Parties, 1)
		assert.Zero(t, results.Parties[0].Seats)
		assert.Empty(t, results.Quotients)
	})

	t.Run("tie goes to larger party", func(t *testing.T) {
		id := tu.CreateTestElection(t, conn, "Empate", 3)
		big := tu.CreateTestParty(t, conn, "Grande", "G")
		small := tu.CreateTestParty(t, conn, "Pequeño", "P")
		tu.SetTestVotes(t, conn, id, big, 100)
		tu.SetTestVotes(t, conn, id, small, 50)

		results, err := ComputeSeatAllocation(conn, id)
		require.NoError(t, err)
		assert.Equal(t, big, results.Parties[0].PartyID)
		assert.Equal(t, 2, results.Parties[0].Seats)
		assert.Equal(t, 1, results.Parties[1].Seats)
	})

	t.Run("missing election", func(t *testing.T) {
		_, err := ComputeSeatAllocation(conn, "missing")
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})

	t.Run("unsupported formula", func(t *testing.T) {
		_, err := conn.Exec(`INSERT INTO formula (id, name, method) VALUES ('hare', 'Hare', 'hare')`)
		require.NoError(t, err)
		id := tu.CreateTestElection(t, conn, "Hare", 3)
		_, err = conn.Exec(`UPDATE election SET formula_id = 'hare' WHERE id = $1`, id)
		require.NoError(t, err)

		_, err = ComputeSeatAllocation(conn, id)
		assert.ErrorIs(t, err, ErrUnsupportedFormula)
	})
}

func TestGetResults(t *testing.T) {
	conn := tu.SetupTestDB(t)
	m := metrics.New()
	h := NewResultsHandler(conn, m)

	electionID := tu.CreateTestElection(t, conn, "Senado", 3)
	a := tu.CreateTestParty(t, conn, "Partido A", "A")
	tu.SetTestVotes(t, conn, electionID, a, 100)

	get := func(id string) *httptest.ResponseRecorder {
		req := tu.MakeRequest("GET", "/elections/"+id+"/results", nil, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		h.GetResults(w, req)
		return w
	}

	w := get(electionID)
	tu.AssertStatus(t, w, http.StatusOK)

	var results models.ElectionResults
	tu.AssertJSON(t, w, &results)
	require.Len(t, results.Parties, 1)
	assert.Equal(t, 3, results.Parties[0].Seats, "single party takes every seat")
	assert.Equal(t, 3, results.AllocatedSeats)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Allocations))

	tu.AssertStatus(t, get("missing"), http.StatusNotFound)

	t.Run("unsupported formula", func(t *testing.T) {
		_, err := conn.Exec(`INSERT INTO formula (id, name, method) VALUES ('hare', 'Hare', 'hare')`)
		require.NoError(t, err)
		_, err = conn.Exec(`UPDATE election SET formula_id = 'hare' WHERE id = $1`, electionID)
		require.NoError(t, err)

		tu.AssertStatus(t, get(electionID), http.StatusUnprocessableEntity)
	})
}
