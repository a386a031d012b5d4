package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/librescoot/simplefsm"
	"github.com/librescoot/simplefsm/internal/config"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cdplayer",
	Short: "cdplayer drives a virtual CD player through its state machine",
	Long: `cdplayer is a demonstration owner for the simplefsm engine. It can replay
event scripts, serve the player over HTTP and print its transition table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger = cfg.Logger()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// machineOptions returns the engine options shared by every command
func machineOptions(extra ...simplefsm.MachineOption) []simplefsm.MachineOption {
	opts := []simplefsm.MachineOption{
		simplefsm.WithLogger(logger),
		simplefsm.WithChainLimit(cfg.ChainLimit),
	}
	return append(opts, extra...)
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
}
