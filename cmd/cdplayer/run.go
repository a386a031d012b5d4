package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/librescoot/simplefsm/internal/player"
	"github.com/librescoot/simplefsm/internal/script"
)

var runCmd = &cobra.Command{
	Use:   "run [script.yaml]",
	Short: "Replay an event script",
	Long:  `Replays the given YAML event script, or the built-in demo session when none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := script.Default()
		if len(args) == 1 {
			var err error
			if s, err = script.Load(args[0]); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		p := player.New(out, machineOptions()...)
		if err := p.Start(); err != nil {
			return fmt.Errorf("start player: %w", err)
		}

		outcomes, err := script.Run(p, s, out)
		if err != nil {
			return fmt.Errorf("script %s: %w", s.Name, err)
		}
		logger.Info("script finished", "script", s.Name, "steps", len(outcomes), "state", p.State().Label())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
