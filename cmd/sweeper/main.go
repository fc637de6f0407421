package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"sweeper/internal/config"
	"sweeper/internal/sweep"
)

var (
	log = logrus.New()

	configPath string
	cfg        = &config.Config{}

	pg      *postgres
	cookies *config.Cookies
	ws      *config.WebSocket
)

func init() {
	const (
		defaultConfigPath = "/run/config.json"
		usage             = "config file path"
	)
	flag.StringVar(&configPath, "config", defaultConfigPath, usage)
	flag.StringVar(&configPath, "c", defaultConfigPath, usage+" (shorthand)")
}

func setupLogging() {
	logLevel := logrus.InfoLevel
	if cfg.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if cfg.Log.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   cfg.Log.File,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      logLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			log.Fatal("unable to set up file logging: ", err)
		}
		log.AddHook(hook)
		sweep.Log.AddHook(hook)
	}

	sweep.Log.SetLevel(logLevel)
	sweep.Log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
}

func setupPostgres(ctx context.Context) {
	var err error

	pg, err = NewPostgres(ctx, cfg.Postgres.DbUrl())
	if err != nil {
		log.Fatal("unable to create connection pool: ", err)
	}
	if err := pg.Ping(ctx); err != nil {
		log.Fatal("unable to ping database: ", err)
	}
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("unable to load .env: ", err)
	}

	if err := config.ReadConfig(configPath, cfg); err != nil {
		log.Fatalf("unable to read config %s: %s", configPath, err.Error())
	}

	setupLogging()

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	jwt, err := config.NewJWT(cfg.Jwt)
	if err != nil {
		log.Fatal(err)
	}
	cookies = config.NewCookies(*cfg, jwt)
	ws = config.NewWebSocket()

	setupPostgres(mainCtx)
	defer pg.Close()

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: buildHandler(),
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	log.Infof("ready to serve @ %s", cfg.Addr)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Printf("exit reason: %s\n", err)
	}
}
