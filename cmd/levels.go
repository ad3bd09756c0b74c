package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kdschlosser/angry-debugger/debugger/level"
)

var levelsConventional bool // Also list the conventional severities

// levelsCmd lists the registered trace levels
var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List every trace level as VALUE NAME",
	Run: func(cmd *cobra.Command, args []string) {
		writeLevels(cmd.OutOrStdout(), levelsConventional)
	},
}

func writeLevels(w io.Writer, conventional bool) {
	if conventional {
		for _, l := range []level.Level{level.NotSet, level.Debug, level.Info, level.Warning, level.Error, level.Critical} {
			fmt.Fprintf(w, "%4d  %s\n", int(l), l)
		}
	}
	for _, l := range level.Composites() {
		fmt.Fprintf(w, "%4d  %s\n", int(l), l)
	}
}

func init() {
	levelsCmd.Flags().BoolVar(&levelsConventional, "conventional", false, "Also list the conventional severities")
	rootCmd.AddCommand(levelsCmd)
}
