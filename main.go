package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chuck21619/cardtable/config"
	"github.com/chuck21619/cardtable/journal"
	"github.com/chuck21619/cardtable/logger"
	"github.com/chuck21619/cardtable/scryfall"
	"github.com/chuck21619/cardtable/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	rec, err := openJournal(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if closer, ok := rec.(*journal.Postgres); ok {
		defer closer.Close()
	}

	pool := ws.NewPool(cfg.LookupWorkers, log)
	if err := pool.Start(); err != nil {
		return err
	}
	defer pool.Stop()

	provider := scryfall.NewClient(log.Named("scryfall"),
		scryfall.WithBaseURL(cfg.ScryfallBaseURL),
		scryfall.WithMinInterval(cfg.ScryfallMinInterval),
		scryfall.WithTimeout(cfg.ScryfallTimeout),
	)

	room := ws.NewRoom(ws.Options{
		CardLimit:           cfg.CardLimit,
		RateLimit:           cfg.NewCardRateLimit,
		RateWindow:          cfg.NewCardRateWindow,
		SurfaceSilentErrors: cfg.SurfaceSilentErrors,
	}, provider, rec, pool, log.Named("room"))

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: ws.NewHub(room, cfg.StaticDir, log.Named("http")),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return room.Run(ctx)
	})
	g.Go(func() error {
		log.Info("server started", zap.String("addr", srv.Addr), zap.Int("cardLimit", cfg.CardLimit))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openJournal(ctx context.Context, url string, log *zap.Logger) (journal.Recorder, error) {
	if url == "" {
		log.Info("journal disabled")
		return journal.Nop{}, nil
	}

	db, err := journal.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := db.ApplySchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("journal enabled")
	return db, nil
}
