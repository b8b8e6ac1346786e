package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "goals",
	Short: "Goal tracker with daily check-ins",
	Long: `Goal tracker API and jobs.

Goals are kept on this device until the user signs in; signed-in sessions
store goals and settings in the account database.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
