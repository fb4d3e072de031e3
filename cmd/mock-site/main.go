package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/futdash/internal/mocksite"
	"github.com/okian/futdash/pkg/logger"
)

// Server timeout constants.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	def := mocksite.DefaultGeneratorConfig()
	var (
		addr    = flag.String("addr", ":8081", "Listen address")
		season  = flag.String("season", "20", "Season served in profile and price URLs")
		players = flag.Int("players", def.Players, "Number of generated player ids")
		seed    = flag.Uint64("seed", def.Seed, "Generator seed")
		days    = flag.Int("price-days", def.PriceDays, "Length of each price series")
		fail    = flag.Int("fail", 0, "Answer 503 for this player id, 0 disables")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("mock-site")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := def
	cfg.Players = *players
	cfg.Seed = *seed
	cfg.PriceDays = *days
	site := mocksite.NewGeneratedSite(*season, cfg)
	if *fail > 0 {
		site.Fail(*fail, -1)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           site.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "serving mock site",
			logger.String("addr", *addr),
			logger.String("season", *season),
			logger.Int("players", cfg.Players),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "mock site failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutdown failed", logger.Error(err))
	}
}
