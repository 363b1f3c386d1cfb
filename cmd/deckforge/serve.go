package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-deckforge/internal/api"
	"github.com/ramonehamilton/mtg-deckforge/internal/events"
	"github.com/ramonehamilton/mtg-deckforge/internal/service"
	"github.com/ramonehamilton/mtg-deckforge/internal/storage"
)

var (
	serveHost string
	servePort int
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", `Deck database path, or ":memory:" (overrides config)`)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("db") {
		cfg.Storage.DBPath = serveDB
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("error closing deck store", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interval := cfg.GetBackupInterval(); interval > 0 && store.db != nil {
		dir := cfg.Storage.BackupDir
		if dir == "" {
			dir = storage.BackupDir(cfg.Storage.DBPath)
		}
		scheduler := storage.NewBackupScheduler(store.db, dir, interval, logger)
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	cards := newScryfall(cfg, logger)
	completer := newCompleter(cfg, logger)
	dispatcher := events.NewEventDispatcher(logger)

	decks := service.NewDeckService(store.repo, cards,
		service.WithAnalyst(newAnalyst(completer, logger)),
		service.WithPublisher(dispatcher),
		service.WithAffiliateID(cfg.Purchase.AffiliateID),
		service.WithDeckLogger(logger),
	)
	search := newSearchService(cfg, cards, completer, logger)

	server := api.NewServer(&api.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.GetRequestTimeout(),
	}, api.Services{Decks: decks, Cards: search}, logger)
	dispatcher.Register(server.NewWebSocketObserver())
	dispatcher.Register(server.Metrics())

	if err := server.Start(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deckforge API listening on http://%s\n", server.Addr())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("API server stopped")
	return nil
}
