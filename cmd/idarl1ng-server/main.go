package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/hotwinter/IDArl1ng/internal/config"
	"github.com/hotwinter/IDArl1ng/internal/database"
	"github.com/hotwinter/IDArl1ng/internal/discovery"
	"github.com/hotwinter/IDArl1ng/internal/relay"
	"github.com/hotwinter/IDArl1ng/pkg/logger"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides IDARL1NG_PORT)")
	dbPath := flag.String("db", "", "SQLite database path")
	filesDir := flag.String("files", "", "directory for uploaded database files")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	overrides := config.RelayOverrides{}
	if *addr != "" {
		overrides.Addr = addr
	}
	if *dbPath != "" {
		overrides.DatabasePath = dbPath
	}
	if *filesDir != "" {
		overrides.FilesDir = filesDir
	}
	if *debug {
		overrides.Debug = debug
	}

	cfg, err := config.LoadRelay(overrides)
	if err != nil {
		logger.Errorf("load config: %v", err)
		os.Exit(1)
	}

	if cfg.Debug {
		logger.SetLevel(logger.LevelDebug)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Infof("opening database: %s", cfg.DatabasePath)
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Errorf("open database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	store := relay.NewStore(db.DB)
	hub := relay.NewFeedHub()

	live := relay.NewSocketServer(store, hub)
	defer live.Close()

	api := relay.NewAPI(store, cfg.FilesDir)
	router := relay.Router(api, live, relay.NewFeedHandler(store, hub))

	if cfg.AnnounceHost != "" {
		responder, err := discovery.NewResponder(cfg.AnnounceHost, cfg.AnnouncePort)
		if err != nil {
			logger.Warnf("discovery disabled: %v", err)
		} else {
			defer responder.Close()
			go responder.Run()
			logger.Infof("announcing %s:%d on the discovery beacon", cfg.AnnounceHost, cfg.AnnouncePort)
		}
	}

	logger.Infof("relay listening on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		logger.Errorf("serve: %v", err)
		os.Exit(1)
	}
}
