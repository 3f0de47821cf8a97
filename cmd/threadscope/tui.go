package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"threadscope/internal/tui"
)

// runTUI is swapped out in tests.
var runTUI = tui.Run

func init() {
	rootCmd.AddCommand(cmdTUI)
}

var cmdTUI = &cobra.Command{
	Use:   "tui",
	Short: "Browse live threads and groups in a terminal UI",
	Long: `Open a full-screen browser over the daemon's thread registry.

Tab switches between the thread list and the group list, r refreshes the
snapshot and q quits. When no daemon is running, s starts one in-process; it
is stopped again when the browser exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runTUI(controller()); err != nil {
			return fmt.Errorf("threadscope tui: registry browser stopped: %w", err)
		}
		return nil
	},
}
