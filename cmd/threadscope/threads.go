package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"threadscope/internal/app"
)

func init() {
	rootCmd.AddCommand(cmdThreads)
}

var (
	threadsName           string
	threadsGroup          string
	threadsTimeoutSeconds int
)

func init() {
	cmdThreads.Flags().StringVarP(&threadsName, "name", "n", "", "Only threads with this name")
	cmdThreads.Flags().StringVarP(&threadsGroup, "group", "g", "", "Only threads inside groups with this name (recursive)")
	cmdThreads.Flags().IntVarP(&threadsTimeoutSeconds, "timeout", "t", 2, "Timeout in seconds for the daemon call")
}

var cmdThreads = &cobra.Command{
	Use:   "threads",
	Short: "List live threads in the daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := controller().Threads(cmd.Context(), app.ThreadsParams{
			Name:    threadsName,
			Group:   threadsGroup,
			Timeout: time.Duration(threadsTimeoutSeconds) * time.Second,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No threads found")
			return nil
		}
		for _, t := range list {
			fmt.Fprintf(out, "[id=%d] %s group=%s\n", t.ID, t.Name, t.Group)
		}
		return nil
	},
}
