// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/escrutinio/allocation"
	"github.com/danielhkuo/escrutinio/models"
	tu "github.com/danielhkuo/escrutinio/testutil"
)

func TestRecordVotes(t *testing.T) {
	conn := tu.SetupTestDB(t)
	h := NewVoteHandler(conn)

	electionID := tu.CreateTestElection(t, conn, "Autonómicas", 4)
	a := tu.CreateTestParty(t, conn, "Partido A", "A")
	b := tu.CreateTestParty(t, conn, "Partido B", "B")

	record := func(id string, votes ...models.PartyVotes) *httptest.ResponseRecorder {
		req := tu.MakeRequest("PUT", "/elections/"+id+"/votes", models.RecordVotesRequest{Votes: votes}, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		h.RecordVotes(w, req)
		return w
	}

	stored := func() map[string]int64 {
		rows, err := conn.Query(`SELECT party_id, votes FROM vote_record WHERE election_id = $1`, electionID)
		require.NoError(t, err)
		defer rows.Close()
		out := map[string]int64{}
		for rows.Next() {
			var id string
			var v int64
			require.NoError(t, rows.Scan(&id, &v))
			out[id] = v
		}
		return out
	}

	w := record(electionID, models.PartyVotes{PartyID: a, Votes: 100}, models.PartyVotes{PartyID: b, Votes: 50})
	tu.AssertStatus(t, w, http.StatusOK)
	var records []models.VoteRecord
	tu.AssertJSON(t, w, &records)
	assert.Len(t, records, 2)

	t.Run("upsert replaces one party only", func(t *testing.T) {
		tu.AssertStatus(t, record(electionID, models.PartyVotes{PartyID: a, Votes: 120}), http.StatusOK)
		assert.Equal(t, map[string]int64{a: 120, b: 50}, stored())
	})

	t.Run("negative votes rejected", func(t *testing.T) {
		tu.AssertStatus(t, record(electionID, models.PartyVotes{PartyID: a, Votes: -1}), http.StatusBadRequest)
	})

	t.Run("oversized tally rejected", func(t *testing.T) {
		w := record(electionID, models.PartyVotes{PartyID: a, Votes: allocation.MaxVotes + 1})
		tu.AssertStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, int64(120), stored()[a])
	})

	t.Run("duplicate party rejected", func(t *testing.T) {
		w := record(electionID, models.PartyVotes{PartyID: a, Votes: 1}, models.PartyVotes{PartyID: a, Votes: 2})
		tu.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		tu.AssertStatus(t, record(electionID), http.StatusBadRequest)
	})

	t.Run("unknown party rolls back the batch", func(t *testing.T) {
		w := record(electionID, models.PartyVotes{PartyID: b, Votes: 999}, models.PartyVotes{PartyID: "missing", Votes: 1})
		tu.AssertStatus(t, w, http.StatusNotFound)
		assert.Equal(t, map[string]int64{a: 120, b: 50}, stored())
	})

	t.Run("unknown election", func(t *testing.T) {
		tu.AssertStatus(t, record("missing", models.PartyVotes{PartyID: a, Votes: 1}), http.StatusNotFound)
	})

	t.Run("list", func(t *testing.T) {
		req := tu.MakeRequest("GET", "/elections/"+electionID+"/votes", nil, nil)
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		h.ListVotes(w, req)
		tu.AssertStatus(t, w, http.StatusOK)

		var list []models.VoteRecord
		tu.AssertJSON(t, w, &list)
		assert.Len(t, list, 2)
		for _, vr := range list {
			assert.Equal(t, electionID, vr.ElectionID)
		}
	})
}
