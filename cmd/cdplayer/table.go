package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/librescoot/simplefsm/internal/player"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the player's transition table as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := player.Table()
		if err := t.Validate(); err != nil {
			return err
		}
		data, err := yaml.Marshal(t.Describe())
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
}
