package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/zachgliebs/VinylRecorder/config"
	"github.com/zachgliebs/VinylRecorder/db"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check Redis connectivity",
	Long:  `Connect to Redis with the configured credentials and run a set/get/delete round trip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectRedis(cfg); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer db.CloseRedis()

		if err := db.TestRedis(); err != nil {
			log.Fatalf("Redis test failed: %v", err)
		}

		fmt.Println("Redis connection OK")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
