package main

import (
	"errors"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5"

	"sweeper/internal/config"
	"sweeper/internal/middleware"
	"sweeper/internal/sweep"
)

var (
	dec = schema.NewDecoder()
	rnd = rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(),
		new(maphash.Hash).Sum64(),
	))
)

func init() {
	dec.IgnoreUnknownKeys(true)
}

const (
	minBoardSide = 3
	maxBoardSide = 100
)

type NewGameParams struct {
	Rows int `schema:"rows,required"`
	Cols int `schema:"cols,required"`
}

func (p NewGameParams) Valid() bool {
	return p.Rows >= minBoardSide && p.Rows <= maxBoardSide &&
		p.Cols >= minBoardSide && p.Cols <= maxBoardSide
}

type CellParams struct {
	Index int `schema:"index,required"`
}

func handleNewGame(w http.ResponseWriter, r *http.Request) {
	var params NewGameParams
	if err := dec.Decode(&params, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !params.Valid() {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	grid, err := sweep.NewGrid(params.Rows, params.Cols, rnd)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	var session *GameSession
	if claims, ok := r.Context().Value(middleware.CtxPlayerClaims).(*config.PlayerClaims); ok {
		log.Debug("creating session for player ", claims.Username)
		session, err = pg.CreatePlayerGameSession(
			r.Context(), claims.PlayerId, grid,
		)
		if err := cookies.Refresh(w, claims); err != nil {
			log.Error(err)
		}
	} else {
		log.Debug("creating anonymous session")
		session, err = pg.CreateAnonymousGameSession(r.Context(), grid)
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

func fetchSession(w http.ResponseWriter, r *http.Request) *GameSession {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil
	}
	session, err := pg.GetSession(r.Context(), sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return nil
	}
	return session
}

func handleGetGame(w http.ResponseWriter, r *http.Request) {
	session := fetchSession(w, r)
	if session == nil {
		return
	}
	if _, err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

// cellAction builds a handler around a single grid operation taking a cell
// index: reveal, the marking ops and the toggles all share this shape.
func cellAction(action func(*sweep.Grid, int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params CellParams
		if err := dec.Decode(&params, r.URL.Query()); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		session := fetchSession(w, r)
		if session == nil {
			return
		}
		if session.Over() {
			w.WriteHeader(http.StatusConflict)
			return
		}
		if err := action(session.Grid, params.Index); err != nil {
			if errors.Is(err, sweep.ErrIndexOutOfBounds) {
				w.WriteHeader(http.StatusBadRequest)
			} else {
				w.WriteHeader(http.StatusInternalServerError)
				log.Error(err)
			}
			return
		}
		session.finish()
		if err := pg.UpdateGameSession(r.Context(), session); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			log.Error(err)
			return
		}
		if _, err := sendJSON(w, session); err != nil {
			log.Error(err)
		}
	}
}

// Accepts newline-separated commands in the request body:
//
//	r <index>  // reveal a cell
//	f <index>  // flag a cell
//	q <index>  // question a cell
//	u <index>  // unmark a cell
//	tf <index> // toggle a flag
//	tq <index> // toggle a question mark
//	s          // sync, no action
//
// Commands run in order; interpretation stops the moment the game is over.
// A malformed command drops all changes and returns its line number.
func handleBatch(w http.ResponseWriter, r *http.Request) {
	session := fetchSession(w, r)
	if session == nil {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	lines := strings.TrimSpace(string(body))
	for i, c := range byPiece(lines, "\n") {
		if err := executeCommand(session.Grid, c); err != nil {
			payload := struct {
				Loc     int    `json:"loc"`
				Message string `json:"message"`
			}{i, err.Error()}
			w.WriteHeader(http.StatusBadRequest)
			if _, err := sendJSON(w, payload); err != nil {
				log.Error(err)
			}
			return
		}
		if session.Over() {
			session.finish()
			break
		}
	}
	if err := pg.UpdateGameSession(r.Context(), session); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

// handleRender serves the textual board, one glyph per cell. In development
// mode ?debug=1 renders raw kinds and counts instead.
func handleRender(w http.ResponseWriter, r *http.Request) {
	session := fetchSession(w, r)
	if session == nil {
		return
	}
	board := session.Grid.Render()
	if r.URL.Query().Get("debug") == "1" && cfg.Development() {
		board = session.Grid.DebugRender()
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(board)); err != nil {
		log.Error(err)
	}
}

func handleGetRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var options []GameRecordsOption
	if username := query.Get("username"); username != "" {
		options = append(options, GameRecordsForPlayer(username))
	}
	var boardParams NewGameParams
	if err := dec.Decode(&boardParams, query); err == nil {
		options = append(options, GameRecordsForBoard(boardParams.Rows, boardParams.Cols))
	}
	records, err := pg.getGameRecords(r.Context(), options...)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, records); err != nil {
		log.Error(err)
	}
}
