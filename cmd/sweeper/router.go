package main

import (
	"net/http"

	"sweeper/internal/middleware"
	"sweeper/internal/sweep"
)

func buildHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/register", handleRegister)
	mux.HandleFunc("POST /v1/login", handleLogin)
	mux.HandleFunc("POST /v1/logout", handleLogout)

	mux.HandleFunc("GET /v1/status", handleStatus)
	mux.HandleFunc("GET /v1/records", handleGetRecords)

	mux.HandleFunc("POST /v1/game", handleNewGame)
	mux.HandleFunc("GET /v1/game/{id}", handleGetGame)
	mux.HandleFunc("GET /v1/game/{id}/render", handleRender)
	mux.HandleFunc("POST /v1/game/{id}/reveal", cellAction((*sweep.Grid).RevealCell))
	mux.HandleFunc("POST /v1/game/{id}/flag", cellAction((*sweep.Grid).FlagCell))
	mux.HandleFunc("POST /v1/game/{id}/question", cellAction((*sweep.Grid).QuestionCell))
	mux.HandleFunc("POST /v1/game/{id}/unmark", cellAction((*sweep.Grid).UnmarkCell))
	mux.HandleFunc("POST /v1/game/{id}/toggle-flag", cellAction((*sweep.Grid).ToggleFlag))
	mux.HandleFunc("POST /v1/game/{id}/toggle-question", cellAction((*sweep.Grid).ToggleQuestion))
	mux.HandleFunc("POST /v1/game/{id}/batch", handleBatch)

	mux.HandleFunc("/v1/game/{id}/connect", handleConnectWs)

	handler := middleware.Wrap(mux,
		middleware.Cors(),
		middleware.Auth(log, cookies),
		middleware.Logging(log),
	)

	return handler
}
