package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bayarcash",
	Short: "Bayarcash payment gateway service",
	Long:  "A payment gateway service that opens Bayarcash payment intents and reconciles webhook and browser-return notifications into order state.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
