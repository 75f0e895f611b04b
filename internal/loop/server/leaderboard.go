package server

import (
	"slices"
	"strconv"
)

// TopScoreEntry is one line of the leaderboard.
type TopScoreEntry struct {
	Username string  `json:"username"`
	Score    float64 `json:"score"`
	seq      uint64 // earlier records win ties
}

// leaderboard keeps the best score per username. Callers hold the
// server lock.
type leaderboard struct {
	limit   int
	seq     uint64
	entries []TopScoreEntry
}

func newLeaderboard(limit int) *leaderboard {
	return &leaderboard{limit: max(0, limit)}
}

// submit records score for username and reports whether it is now the
// best score on the board.
func (b *leaderboard) submit(username string, clientID int, score float64) bool {
	if b.limit == 0 || score <= 0 {
		return false
	}
	if username == "" {
		username = anonymous(clientID)
	}

	i := slices.IndexFunc(b.entries, func(e TopScoreEntry) bool { return e.Username == username })
	if i >= 0 {
		if score <= b.entries[i].Score {
			return false
		}
		b.entries = slices.Delete(b.entries, i, i+1)
	}

	b.seq++
	b.entries = append(b.entries, TopScoreEntry{Username: username, Score: score, seq: b.seq})
	slices.SortFunc(b.entries, func(x, y TopScoreEntry) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		case x.seq < y.seq:
			return -1
		case x.seq > y.seq:
			return 1
		}
		return 0
	})
	if len(b.entries) > b.limit {
		b.entries = b.entries[:b.limit]
	}
	return b.entries[0].Username == username && b.entries[0].seq == b.seq
}

func (b *leaderboard) top() []TopScoreEntry {
	return slices.Clone(b.entries)
}

func anonymous(clientID int) string {
	return "pilot-" + strconv.Itoa(clientID)
}
