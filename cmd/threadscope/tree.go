package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"threadscope/internal/threads"
)

func init() {
	rootCmd.AddCommand(cmdTree)
}

var treeTimeoutSeconds int

func init() {
	cmdTree.Flags().IntVarP(&treeTimeoutSeconds, "timeout", "t", 2, "Timeout in seconds for the daemon call")
}

var cmdTree = &cobra.Command{
	Use:   "tree",
	Short: "Print the daemon's group tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := controller().Tree(cmd.Context(), time.Duration(treeTimeoutSeconds)*time.Second)
		if err != nil {
			return err
		}
		printTree(cmd.OutOrStdout(), root)
		return nil
	},
}

func printTree(w io.Writer, root threads.Node) {
	root.Walk(func(depth int, n threads.Node) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(w, "%s%s/\n", indent, n.Name)
		for _, t := range n.Threads {
			fmt.Fprintf(w, "%s  [id=%d] %s\n", indent, t.ID, t.Name)
		}
	})
}
