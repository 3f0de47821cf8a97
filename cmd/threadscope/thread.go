package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"threadscope/internal/app"
)

func init() {
	rootCmd.AddCommand(cmdThread)
}

var (
	threadGroup          string
	threadTimeoutSeconds int
)

func init() {
	cmdThread.Flags().StringVarP(&threadGroup, "group", "g", "", "Only search inside groups with this name")
	cmdThread.Flags().IntVarP(&threadTimeoutSeconds, "timeout", "t", 2, "Timeout in seconds for the daemon call")
}

var cmdThread = &cobra.Command{
	Use:   "thread <id>",
	Short: "Look a thread up by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid thread id %q: %w", args[0], err)
		}
		t, ok, err := controller().FindThread(cmd.Context(), app.FindParams{
			ID:      id,
			Group:   threadGroup,
			Timeout: time.Duration(threadTimeoutSeconds) * time.Second,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintf(out, "Thread %d not found\n", id)
			return nil
		}
		fmt.Fprintf(out, "[id=%d] %s group=%s\n", t.ID, t.Name, t.Group)
		return nil
	},
}
