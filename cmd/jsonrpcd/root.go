package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mnehpets/jsonrpcd/config"
	"github.com/mnehpets/jsonrpcd/jsonrpc"
	"github.com/mnehpets/jsonrpcd/methods"
	"github.com/mnehpets/jsonrpcd/server"
)

var (
	configPath string
	debugLog   bool
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "config file (yaml, json or toml)")
	f.BoolVar(&debugLog, "debug", false, "log at debug level")
	f.String("ip", "", "bind address (env RPC_SERVICE_IP)")
	f.Int("port", 0, "bind port (env RPC_SERVICE_PORT)")
	f.String("logging", "", "log level (env RPC_SERVICE_LOGGING)")
	f.Int("workers", 0, "concurrent partitions per batch (env RPC_SERVICE_WORKERS)")
	f.Int64("max-body-bytes", 0, "request body limit in bytes (env RPC_SERVICE_MAX_BODY_BYTES)")
	f.IntSlice("area-codes", nil, "accepted phone area codes (env RPC_SERVICE_AREA_CODES)")
	f.Bool("gzip", true, "compress responses (env RPC_SERVICE_GZIP)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command execution failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "jsonrpcd",
	Short:         "Serve JSON-RPC 2.0 batches over HTTP",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	RunE: serve,
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	initLog(cfg.Logging, debugLog)

	reg := jsonrpc.NewRegistry()
	methods.NewService(cfg.AreaCodes).Register(reg)

	srv, err := server.New(cfg, reg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("url", cfg.BackendURL("http")).Msg("starting jsonrpcd")
	return srv.Run(ctx)
}
