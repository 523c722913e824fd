package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/zachgliebs/VinylRecorder/server"
)

var rootCmd = &cobra.Command{
	Use:   "vinylrecorder",
	Short: "VinylRecorder is a personal album catalog with a play-session log.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting VinylRecorder server...")
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
