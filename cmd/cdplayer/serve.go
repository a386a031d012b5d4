package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/librescoot/simplefsm"
	"github.com/librescoot/simplefsm/internal/server"
	"github.com/librescoot/simplefsm/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a player over HTTP",
	Long:  `Starts one player and exposes it as a JSON API, with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		collector := metrics.New(cfg.MetricsNamespace)
		reg := prometheus.NewRegistry()
		reg.MustRegister(collector, collectors.NewGoCollector())

		p, out, err := server.NewPlayer(machineOptions(simplefsm.WithObserver(collector))...)
		if err != nil {
			return fmt.Errorf("start player: %w", err)
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           server.New(p, out, logger).Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("serving player", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown: %w", err)
			}
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address (overrides SIMPLEFSM_LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
