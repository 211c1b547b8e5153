package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Andersonaa12/cerebro-packing/internal/api"
	"github.com/Andersonaa12/cerebro-packing/internal/config"
	"github.com/Andersonaa12/cerebro-packing/internal/credentials"
	"github.com/Andersonaa12/cerebro-packing/internal/database"
	"github.com/Andersonaa12/cerebro-packing/internal/database/repository"
	"github.com/Andersonaa12/cerebro-packing/internal/printing"
	"github.com/Andersonaa12/cerebro-packing/internal/service"
	"github.com/Andersonaa12/cerebro-packing/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	for _, p := range []string{cfg.Database.Path, cfg.Credentials.Path, cfg.Log.Path} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			log.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
		}
	}

	// the TUI owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer logFile.Close()
	logger := zerolog.New(logFile).With().Timestamp().Logger().Level(logLevel(cfg.Log.Level))

	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), logger)
	store := credentials.NewStore(cfg.Credentials.Path)

	auth := &service.AuthService{Client: client, Store: store, Log: logger}
	packing := &service.PackingService{
		Client:  client,
		Journal: repository.NewJournalRepo(db),
		Printer: printing.NewLP(cfg.Printer.Name, logger),
		Log:     logger,
	}

	logger.Info().Str("api", cfg.API.BaseURL).Msg("starting")
	p := tea.NewProgram(tui.New(ctx, cfg, auth, packing, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

func logLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
