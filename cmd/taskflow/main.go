package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/internal/server"
	"taskflow/internal/storage"
	"taskflow/internal/storage/memory"
	"taskflow/internal/storage/sqlite"
	"taskflow/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("TASKFLOW_ADDR", ":8080"), "HTTP listen address")
	dbFlag := flag.String("db", util.EnvOrDefault("TASKFLOW_DB_PATH", "data/taskflow.db"), "Path to sqlite database file, or 'memory' for an ephemeral store")
	staticFlag := flag.String("static", util.EnvOrDefault("TASKFLOW_STATIC_DIR", "web/dist"), "Directory with built frontend")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var store storage.Store
	if *dbFlag == "memory" {
		logger.Info("using in-memory store; data is not persisted")
		store = memory.New()
	} else {
		sqliteStore, err := sqlite.Open(*dbFlag, logger)
		if err != nil {
			logger.Error("unable to open database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	srv := server.New(store, logger, *staticFlag)

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
