package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/aedificium/oraclesim"
)

var serveFlags struct {
	addr string
	seed int64
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a simulated oracle over HTTP",
	Long: `Starts an HTTP server speaking the oracle protocol (/select, /explore, /guess)
over randomly drawn graphs, with /healthz and Prometheus /metrics.

Point "solve" at it with AEDIFICIUM_URL=http://<addr>.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", "", "Listen address (default from config)")
	f.Int64Var(&serveFlags.seed, "seed", 0, "Graph seed (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("addr") {
		cfg.Serve.Addr = serveFlags.addr
	}
	if cmd.Flags().Changed("seed") {
		cfg.Serve.Seed = serveFlags.seed
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := oraclesim.New(oraclesim.WithSeed(cfg.Serve.Seed), oraclesim.WithLogger(logger))

	return srv.Run(ctx, cfg.Serve.Addr)
}
