package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zachgliebs/VinylRecorder/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the VinylRecorder HTTP server",
	Long:  `Start the HTTP server serving the album catalog API, the play-session API and the static web UI.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
