package main

import (
	"encoding/json"
	"strconv"
	"time"

	"sweeper/internal/sweep"
)

type GameSession struct {
	SessionId int64
	PlayerId  *int64
	Grid      *sweep.Grid
	StartedAt time.Time
	EndedAt   time.Time
}

type GameSessionJSON struct {
	SessionId      string `json:"session_id"`
	Board          string `json:"board"`
	Rows           int    `json:"rows"`
	Cols           int    `json:"cols"`
	TotalMines     int    `json:"total_mines"`
	RemainingFlags int    `json:"remaining_flags"`
	Won            bool   `json:"won"`
	Lost           bool   `json:"lost"`
	StartedAt      int64  `json:"started_at"`
	EndedAt        *int64 `json:"ended_at,omitempty"`
}

func (s GameSession) MarshalJSON() ([]byte, error) {
	var endedAt *int64
	if !s.EndedAt.IsZero() {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return json.Marshal(GameSessionJSON{
		SessionId:      strconv.FormatInt(s.SessionId, 10),
		Board:          s.Grid.Render(),
		Rows:           s.Grid.Rows(),
		Cols:           s.Grid.Cols(),
		TotalMines:     s.Grid.TotalMines(),
		RemainingFlags: s.Grid.RemainingFlags(),
		Won:            s.Grid.IsGameWon(),
		Lost:           s.Grid.IsGameLost(),
		StartedAt:      s.StartedAt.UnixMilli(),
		EndedAt:        endedAt,
	})
}

// Over reports whether the session's game has concluded either way.
func (s *GameSession) Over() bool {
	return s.Grid.IsGameWon() || s.Grid.IsGameLost()
}

// finish stamps the session end time once the game is over. The engine is a
// pure state machine, so game-over bookkeeping lives out here.
func (s *GameSession) finish() {
	if s.Over() && s.EndedAt.IsZero() {
		s.EndedAt = time.Now().UTC()
	}
}
