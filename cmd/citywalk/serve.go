package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/citywalk/internal/games/city"
	"github.com/vovakirdan/citywalk/internal/metrics"
	"github.com/vovakirdan/citywalk/internal/platform/tui"
	"github.com/vovakirdan/citywalk/internal/sim"
	"github.com/vovakirdan/citywalk/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the City Walk SSH server",
	Long: `Start an SSH server that lets users connect and walk the city.

Each SSH connection gets its own city. Runs are stored per server, so all
users share the same scoreboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.citywalk/host_key

Examples:
  citywalk serve                           # Listen on :23234 with auto-generated key
  citywalk serve --ssh :2222               # Listen on port 2222
  citywalk serve --metrics :9090           # Also expose Prometheus metrics
  citywalk serve --difficulty hard         # Every session plays the hard city

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Prometheus metrics address, e.g. :9090 (disabled if empty)")
}

func runServe(cmd *cobra.Command, _ []string) {
	logger := newLogger("citywalk-ssh")
	if !cmd.Flags().Changed("log-level") {
		logger.SetLevel(log.InfoLevel)
	}

	var (
		m        *metrics.Metrics
		recorder sim.Recorder
	)
	if flagMetricsAddr != "" {
		metricsServer := metrics.NewServer(flagMetricsAddr, logger.WithPrefix("citywalk-metrics"))
		if _, err := metricsServer.Start(); err != nil {
			fail("starting metrics server: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Stop(ctx); err != nil {
				logger.Warn("metrics server did not stop cleanly", "err", err)
			}
		}()
		m = metricsServer.Metrics()
		recorder = m
		fmt.Printf("Serving metrics on http://%s/metrics\n", metricsServer.Addr())
	}

	preset, err := configureGame(logger, recorder)
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("runs will not be saved", "db", flagDBPath, "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.GameID = city.ID
	cfg.Difficulty = string(preset)
	cfg.TickRate = flagFPS
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute

	server, err := tui.NewSSHServer(cfg, store, m, logger)
	if err != nil {
		fail("creating server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting City Walk SSH server on %s (%s)\n", server.Addr(), preset)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "err", err)
		stop()
		os.Exit(1)
	}
}
