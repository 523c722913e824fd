package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/zachgliebs/VinylRecorder/config"
	"github.com/zachgliebs/VinylRecorder/core/tracker"
	"github.com/zachgliebs/VinylRecorder/db"
	"github.com/zachgliebs/VinylRecorder/repository"
)

var (
	backfillAlbumID  int64
	backfillStarted  string
	backfillFinished string
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Log a completed play session from the command line",
	Long: `Insert a play session with both timestamps known up front, bypassing the
open/close protocol. Timestamps are RFC3339, e.g. 2024-01-01T20:15:00Z.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database with GORM: %v", err)
		}
		defer db.CloseGormDB()

		if err := db.InitDB(); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}

		sessionRepo := repository.NewGormSessionRepository(db.GormDB)
		trk := tracker.NewTracker(sessionRepo, nil, nil)

		session, err := trk.LogCompletedSession(context.Background(), backfillAlbumID, backfillStarted, backfillFinished)
		if err != nil {
			log.Fatalf("Failed to log session: %v", err)
		}

		fmt.Printf("Logged play %d for album %d (%s -> %s)\n",
			session.ID, session.AlbumID, session.PlayedOn, *session.FinishedOn)
	},
}

func init() {
	backfillCmd.Flags().Int64Var(&backfillAlbumID, "album", 0, "album id (required)")
	backfillCmd.Flags().StringVar(&backfillStarted, "started", "", "RFC3339 start time (required)")
	backfillCmd.Flags().StringVar(&backfillFinished, "finished", "", "RFC3339 finish time (required)")
	backfillCmd.MarkFlagRequired("album")
	backfillCmd.MarkFlagRequired("started")
	backfillCmd.MarkFlagRequired("finished")
	rootCmd.AddCommand(backfillCmd)
}
