package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdDump)
}

var (
	dumpPath           string
	dumpTimeoutSeconds int
)

func init() {
	cmdDump.Flags().StringVarP(&dumpPath, "path", "p", "", "File to write (defaults to dump.path or the runtime dir)")
	cmdDump.Flags().IntVarP(&dumpTimeoutSeconds, "timeout", "t", 5, "Timeout in seconds for the daemon call")
}

var cmdDump = &cobra.Command{
	Use:   "dump",
	Short: "Ask the daemon to write its group tree as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		written, err := controller().Dump(cmd.Context(), dumpPath, time.Duration(dumpTimeoutSeconds)*time.Second)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tree written to %s\n", written)
		return nil
	},
}
