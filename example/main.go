package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ognick/goscade/example/internal/api"
	"github.com/ognick/goscade/example/internal/config"
	"github.com/ognick/goscade/example/internal/usecase"
	"github.com/ognick/goscade/example/pkg"
)

func main() {
	cfg := config.Load()

	log := pkg.NewLogger(pkg.LoggerCfg{
		Level:         cfg.LogLevel,
		Development:   true,
		DisableCaller: false,
		DisableJson:   true,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", api.NewHandler(log, usecase.NewUsecase(log, cfg.GraphOutputDir)))

	server := pkg.NewServer(cfg.Addr, mux)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	log.Infof("HTTP started on http://%s", cfg.Addr)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("%v", err)
		}
	case <-ctx.Done():
		if err := server.Stop(context.Background()); err != nil {
			log.Errorf("%v", err)
		}
		<-errCh
	}

	log.Info("Application gracefully finished")
}
