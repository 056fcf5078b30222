// Command pinboard opens a whiteboard window backed by a SQLite file.
//
// Process settings come from the environment (PINBOARD_DB, PINBOARD_WIDTH,
// ...); engine tunables from an optional YAML file given with -config and
// then PINBOARD_* overrides.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/kelseyhightower/envconfig"

	"github.com/phanxgames/pinboard"
	"github.com/phanxgames/pinboard/ebitenboard"
	"github.com/phanxgames/pinboard/sqlitestore"
)

type settings struct {
	DBPath    string `envconfig:"DB" default:"pinboard.db"`
	Board     string `envconfig:"BOARD"`
	Width     int    `envconfig:"WIDTH" default:"1280"`
	Height    int    `envconfig:"HEIGHT" default:"800"`
	Title     string `envconfig:"TITLE" default:"Pinboard"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	ShowStats bool   `envconfig:"STATS" default:"true"`
}

func main() {
	configPath := flag.String("config", "", "YAML engine config file")
	scriptPath := flag.String("script", "", "JSON input script to replay on start")
	debug := flag.Bool("debug", false, "log per-commit statistics")
	flag.Parse()

	var st settings
	if err := envconfig.Process("PINBOARD", &st); err != nil {
		slog.Error("load settings", "error", err)
		os.Exit(1)
	}
	logger := newLogger(st.LogLevel, *debug)
	slog.SetDefault(logger)

	cfg := pinboard.DefaultConfig()
	if *configPath != "" {
		loaded, err := pinboard.LoadConfigFile(*configPath)
		if err != nil {
			logger.Error("load config", "error", err)
			os.Exit(1)
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv("PINBOARD"); err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if st.Board != "" {
		cfg.PersistKey = st.Board
	}

	store, err := sqlitestore.Open(st.DBPath, sqlitestore.WithMkdirAll())
	if err != nil {
		logger.Error("open store", "path", st.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("store opened", "path", st.DBPath, "board", cfg.PersistKey)

	gw := pinboard.NewGateway(store, cfg.PersistKey, logger)
	ctrl, err := pinboard.NewController(cfg, pinboard.WithLogger(logger), pinboard.WithGateway(gw))
	if err != nil {
		logger.Error("create controller", "error", err)
		os.Exit(1)
	}
	ctrl.SetDebugMode(*debug)

	ctx := context.Background()
	if ctrl.Load(ctx) {
		logger.Info("board loaded", "notes", len(ctrl.Scene().Notes()))
	} else {
		logger.Info("starting empty board")
	}

	opts := []ebitenboard.Option{ebitenboard.WithLogger(logger), ebitenboard.WithStats(st.ShowStats)}
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			logger.Error("read script", "path", *scriptPath, "error", err)
			os.Exit(1)
		}
		script, err := pinboard.LoadScript(data)
		if err != nil {
			logger.Error("load script", "path", *scriptPath, "error", err)
			os.Exit(1)
		}
		opts = append(opts, ebitenboard.WithScript(script))
	}

	ebiten.SetWindowSize(st.Width, st.Height)
	ebiten.SetWindowTitle(st.Title)
	ebiten.SetWindowResizable(true)
	runErr := ebiten.RunGame(ebitenboard.New(ctrl, opts...))

	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := ctrl.Flush(saveCtx); err != nil {
		logger.Error("save on exit", "error", err)
	}
	if runErr != nil {
		logger.Error("run", "error", runErr)
		os.Exit(1)
	}
}

func newLogger(level string, debug bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if debug && lvl > slog.LevelInfo {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
