package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"threadscope/internal/app"
)

func init() {
	rootCmd.AddCommand(cmdGroups)
}

var (
	groupsName           string
	groupsTimeoutSeconds int
)

func init() {
	cmdGroups.Flags().StringVarP(&groupsName, "name", "n", "", "Only groups with this name")
	cmdGroups.Flags().IntVarP(&groupsTimeoutSeconds, "timeout", "t", 2, "Timeout in seconds for the daemon call")
}

var cmdGroups = &cobra.Command{
	Use:   "groups",
	Short: "List thread groups in the daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := controller().Groups(cmd.Context(), app.GroupsParams{
			Name:    groupsName,
			Timeout: time.Duration(groupsTimeoutSeconds) * time.Second,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No groups found")
			return nil
		}
		for _, g := range list {
			line := fmt.Sprintf("%s parent=%s", g.Name, g.Parent)
			if g.Destroyed {
				line += " (destroyed)"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}
