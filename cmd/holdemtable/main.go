package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "holdemtable",
		Short:         "Texas Hold'em cash tables played by bots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "info", "debug, info, warn or error")

	simulate := &cobra.Command{
		Use:   "simulate",
		Short: "Seat bots at a few tables, play the hands and print the settlement reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			slog.SetDefault(newLogger(cfg.LogLevel))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results, err := runSimulation(ctx, cfg, slog.Default())
			printResults(results)
			return err
		},
	}
	bindFlags(simulate.Flags(), DefaultConfig())

	root.AddCommand(simulate)

	return root
}

func newLogger(level string) *slog.Logger {
	logger := pterm.DefaultLogger.WithLevel(parseLogLevel(level))
	return slog.New(pterm.NewSlogHandler(logger))
}

func parseLogLevel(level string) pterm.LogLevel {
	switch level {
	case "debug":
		return pterm.LogLevelDebug
	case "warn":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "info", "":
		return pterm.LogLevelInfo
	}

	fmt.Fprintf(os.Stderr, "unknown log level %q, using info\n", level)
	return pterm.LogLevelInfo
}
