package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/librescoot/simplefsm"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cdplayer",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cdplayer version %s\n", simplefsm.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
