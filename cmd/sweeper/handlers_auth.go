package main

import (
	"errors"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"sweeper/internal/config"
	"sweeper/internal/middleware"
)

type PlayerInfo struct {
	Username string `json:"username"`
	PlayerId int64  `json:"player_id"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

// This endpoint may be called for the side effect in the auth middleware
// that clears expired auth cookies
func handleStatus(w http.ResponseWriter, r *http.Request) {
	var status *Status
	if claims, ok := r.Context().Value(middleware.CtxPlayerClaims).(*config.PlayerClaims); ok {
		status = &Status{
			LoggedIn: true,
			Player:   &PlayerInfo{claims.Username, claims.PlayerId},
		}
		if err := cookies.Refresh(w, claims); err != nil {
			log.Error(err)
		}
	} else {
		status = &Status{LoggedIn: false}
	}
	if _, err := sendJSON(w, status); err != nil {
		log.Error(err)
	}
}

func parseCredentials(w http.ResponseWriter, r *http.Request) (username, password string, ok bool) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("body must contain url-encoded username and password"))
		return
	}
	if len([]byte(password)) > 72 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("password must not exceed 72 bytes"))
		return
	}
	return username, password, true
}

func handleRegister(w http.ResponseWriter, r *http.Request) {
	username, password, ok := parseCredentials(w, r)
	if !ok {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	player, err := pg.CreatePlayer(r.Context(), username, hash)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("username taken"))
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error("unable to insert player: ", err)
		return
	}
	claims := config.NewPlayerClaims(player.PlayerId, player.Username)
	if err := cookies.Refresh(w, claims); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error("unable to sign jwt token: ", err)
	}
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	username, password, ok := parseCredentials(w, r)
	if !ok {
		return
	}
	player, err := pg.GetPlayer(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("username unknown"))
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if err := bcrypt.CompareHashAndPassword(
		player.PasswordHash, []byte(password),
	); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	claims := config.NewPlayerClaims(player.PlayerId, player.Username)
	if err := cookies.Refresh(w, claims); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error("unable to sign jwt token: ", err)
	}
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	cookies.Clear(w)
}
