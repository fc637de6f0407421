package main

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"sweeper/internal/sweep"
)

type postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dbUrl string) (*postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(dbUrl)
	if err != nil {
		return nil, err
	}
	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	return &postgres{db}, nil
}

func (pg *postgres) Ping(ctx context.Context) error {
	return pg.db.Ping(ctx)
}

func (pg *postgres) Close() {
	pg.db.Close()
}

type Player struct {
	PlayerId     int64  `db:"player_id"`
	Username     string `db:"username"`
	PasswordHash []byte `db:"password_hash"`
}

func (pg *postgres) CreatePlayer(
	ctx context.Context, username string, passwordHash []byte,
) (*Player, error) {
	var playerId int64
	if err := pg.db.QueryRow(ctx, `
		INSERT INTO player (
			username, password_hash
		)
		VALUES (
			@username, @password_hash
		)
		RETURNING player_id;`,
		pgx.NamedArgs{
			"username":      username,
			"password_hash": passwordHash,
		}).Scan(&playerId); err != nil {
		return nil, err
	}
	player := &Player{
		PlayerId: playerId,
		Username: username,
	}
	return player, nil
}

func (pg *postgres) GetPlayer(
	ctx context.Context, username string,
) (*Player, error) {
	rows, err := pg.db.Query(ctx, `
		SELECT player_id, username, password_hash
		FROM player
		WHERE username = $1;`,
		username)
	if err != nil {
		return nil, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
}

func (pg *postgres) createGameSession(
	ctx context.Context, playerId *int64, grid *sweep.Grid,
) (*GameSession, error) {
	state, err := grid.Bytes()
	if err != nil {
		return nil, err
	}
	var (
		gameSessionId int64
		startedAt     time.Time
	)
	if err := pg.db.QueryRow(ctx, `
		INSERT INTO game_session (
			player_id, rows, cols, mine_count, won, lost, state
		)
		VALUES (
			@player_id, @rows, @cols, @mine_count, @won, @lost, @state
		)
		RETURNING game_session_id, started_at;`,
		pgx.NamedArgs{
			"player_id":  playerId,
			"rows":       grid.Rows(),
			"cols":       grid.Cols(),
			"mine_count": grid.TotalMines(),
			"won":        grid.IsGameWon(),
			"lost":       grid.IsGameLost(),
			"state":      state,
		}).Scan(&gameSessionId, &startedAt); err != nil {
		return nil, err
	}
	session := &GameSession{
		SessionId: gameSessionId,
		PlayerId:  playerId,
		Grid:      grid,
		StartedAt: startedAt,
	}
	return session, nil
}

func (pg *postgres) CreateAnonymousGameSession(
	ctx context.Context, grid *sweep.Grid,
) (*GameSession, error) {
	return pg.createGameSession(ctx, nil, grid)
}

func (pg *postgres) CreatePlayerGameSession(
	ctx context.Context, playerId int64, grid *sweep.Grid,
) (*GameSession, error) {
	return pg.createGameSession(ctx, &playerId, grid)
}

func (pg *postgres) GetSession(
	ctx context.Context, gameSessionId int64,
) (*GameSession, error) {
	var (
		playerId  *int64
		state     []byte
		startedAt time.Time
		endedAt   pgtype.Timestamptz
	)
	if err := pg.db.QueryRow(ctx, `
		SELECT player_id, state, started_at, ended_at
		FROM game_session
		WHERE game_session_id = $1;`,
		gameSessionId).Scan(
		&playerId, &state, &startedAt, &endedAt,
	); err != nil {
		return nil, err
	}
	grid, err := sweep.DecodeGrid(state)
	if err != nil {
		return nil, err
	}
	session := &GameSession{
		SessionId: gameSessionId,
		PlayerId:  playerId,
		Grid:      grid,
		StartedAt: startedAt,
		EndedAt:   endedAt.Time,
	}
	return session, nil
}

func (pg *postgres) UpdateGameSession(
	ctx context.Context, session *GameSession,
) error {
	state, err := session.Grid.Bytes()
	if err != nil {
		return err
	}
	var endedAt *time.Time
	if !session.EndedAt.IsZero() {
		endedAt = &session.EndedAt
	}
	_, err = pg.db.Exec(ctx, `
		UPDATE game_session
		SET won = @won
			, lost = @lost
			, ended_at = @ended_at
			, state = @state
		WHERE game_session_id = @game_session_id;`,
		pgx.NamedArgs{
			"game_session_id": session.SessionId,
			"won":             session.Grid.IsGameWon(),
			"lost":            session.Grid.IsGameLost(),
			"ended_at":        endedAt,
			"state":           state,
		})
	return err
}

type GameRecord struct {
	GameSessionId int64   `db:"game_session_id" json:"session_id"`
	Username      *string `db:"username"        json:"username"`
	Rows          int     `db:"rows"            json:"rows"`
	Cols          int     `db:"cols"            json:"cols"`
	MineCount     int     `db:"mine_count"      json:"mine_count"`
	Playtime      float64 `db:"playtime"        json:"playtime"`
}

type GameRecordFilters struct {
	username   *string
	rows, cols *int
}

func (f GameRecordFilters) WhereClause() (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	whereClauses := []string{}
	if f.username != nil {
		args["username"] = f.username
		whereClauses = append(whereClauses, "username = @username")
	}
	if f.rows != nil && f.cols != nil {
		args["rows"] = f.rows
		args["cols"] = f.cols
		whereClauses = append(whereClauses, "rows = @rows", "cols = @cols")
	}
	if len(whereClauses) == 0 {
		return "", args
	}
	return strings.Join(whereClauses, " and "), args
}

type GameRecordsOption = func(*GameRecordFilters)

func GameRecordsForPlayer(username string) GameRecordsOption {
	return func(f *GameRecordFilters) {
		f.username = &username
	}
}

func GameRecordsForBoard(rows, cols int) GameRecordsOption {
	return func(f *GameRecordFilters) {
		f.rows = &rows
		f.cols = &cols
	}
}

// getGameRecords lists finished, won games ordered by playtime.
func (pg *postgres) getGameRecords(
	ctx context.Context, options ...GameRecordsOption,
) ([]GameRecord, error) {
	filters := &GameRecordFilters{}
	for _, op := range options {
		op(filters)
	}

	sql := `
	select
		game_session_id
		, username
		, rows
		, cols
		, mine_count
		, (
			extract('epoch' from ended_at) - extract('epoch' from started_at)
		) * 1000 playtime
	from game_session
		left outer join player using (player_id)
	where
		won = true
		and lost = false
		and ended_at is not null`

	whereClause, args := filters.WhereClause()
	if whereClause != "" {
		sql += " and " + whereClause
	}

	sql += " order by playtime"

	rows, err := pg.db.Query(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[GameRecord])
}
