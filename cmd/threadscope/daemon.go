package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdDaemon)
}

var daemonForceRestart bool

func init() {
	cmdDaemon.Flags().BoolVarP(&daemonForceRestart, "force", "f", false, "Restart the daemon if it is already running")
}

var cmdDaemon = &cobra.Command{
	Use:   "daemon",
	Short: "Start the daemon process",
	Long:  `The daemon serves introspection queries about its own goroutine groups. If it is already running, nothing happens unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := controller()
		out := cmd.OutOrStdout()

		status, err := ctrl.Status()
		if status.Running {
			if !daemonForceRestart {
				var message string
				if status.PID != 0 {
					message = fmt.Sprintf("Daemon is already running (pid %d). Stop it manually or re-run with --force.", status.PID)
				} else {
					message = "Daemon is already running. Stop it manually or re-run with --force."
				}
				if err != nil {
					message = fmt.Sprintf("Error checking if daemon is running: %v", err)
				}
				fmt.Fprintln(out, message)
				return nil
			}
			fmt.Fprintln(out, "Stopping existing daemon process...")
			if err := ctrl.StopDaemon(true); err != nil {
				return err
			}
		}

		handle, err := ctrl.StartDaemon()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Started daemon process")
		runSpin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stdout))
		runSpin.Suffix = " Running..."
		runSpin.Start()

		sigc := make(chan os.Signal, 2)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		<-sigc
		runSpin.Stop()
		return handle.Close()
	},
}
