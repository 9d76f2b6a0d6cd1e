package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lecturelens-be/internal/config"
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/repository/specification"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/pkg/database"
	"lecturelens-be/pkg/events"
	pktNats "lecturelens-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "lensctl",
	Short: "Operational tooling for the LectureLens backend",
	Long: `lensctl bundles the maintenance tasks operators run against a live
deployment: ending sessions that were abandoned mid-lecture, purging old
ended sessions, and tailing the event stream.`,
}

func openDB() (*gorm.DB, *config.Config) {
	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	return db, cfg
}

var endStaleIdle time.Duration

var endStaleCmd = &cobra.Command{
	Use:   "end-stale",
	Short: "End active sessions with no activity past the idle window",
	Run: func(cmd *cobra.Command, args []string) {
		db, _ := openDB()
		uowFactory := unitofwork.NewRepositoryFactory(db)

		ctx := context.Background()
		cutoff := time.Now().Add(-endStaleIdle)

		uow := uowFactory.NewUnitOfWork(ctx)
		sessions, err := uow.SessionRepository().FindAll(ctx,
			specification.ByStatus{Status: string(entity.SessionStatusActive)},
			specification.IdleSince{Cutoff: cutoff},
		)
		if err != nil {
			color.Red("Failed to list stale sessions: %v", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			color.Green("No stale sessions (idle window %s).", endStaleIdle)
			return
		}

		color.Yellow("Ending %d stale sessions (idle since %s)...", len(sessions), cutoff.Format(time.RFC3339))

		ended := 0
		for _, session := range sessions {
			now := time.Now()
			session.Status = entity.SessionStatusEnded
			session.EndedAt = &now
			if err := uow.SessionRepository().Update(ctx, session); err != nil {
				color.Red("  %s: %v", session.Id, err)
				continue
			}
			fmt.Printf("  ended %s (%s)\n", session.Id, session.Name)
			ended++
		}

		color.Green("Done. Ended %d/%d sessions.", ended, len(sessions))
	},
}

var purgeAge time.Duration

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete ended sessions older than the retention window",
	Run: func(cmd *cobra.Command, args []string) {
		db, _ := openDB()

		cutoff := time.Now().Add(-purgeAge)

		var sessionIds []string
		db.Raw("SELECT id FROM sessions WHERE status = 'ended' AND ended_at < ?", cutoff).Scan(&sessionIds)

		if len(sessionIds) == 0 {
			color.Green("No sessions past the retention window (%s).", purgeAge)
			return
		}

		color.Yellow("Purging %d sessions ended before %s...", len(sessionIds), cutoff.Format(time.RFC3339))

		// Children first. Citations hang off segments, chunks off documents.
		db.Exec("DELETE FROM citations WHERE segment_id IN (SELECT id FROM transcript_segments WHERE session_id IN ?)", sessionIds)
		db.Exec("DELETE FROM transcript_segments WHERE session_id IN ?", sessionIds)
		db.Exec("DELETE FROM notes WHERE session_id IN ?", sessionIds)
		db.Exec("DELETE FROM document_chunks WHERE document_id IN (SELECT id FROM documents WHERE session_id IN ?)", sessionIds)
		db.Exec("DELETE FROM documents WHERE session_id IN ?", sessionIds)
		db.Exec("DELETE FROM sessions WHERE id IN ?", sessionIds)

		color.Green("Done. Purged %d sessions.", len(sessionIds))
	},
}

var eventsSubject string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail the lecture event stream",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			color.Red("Failed to connect to NATS: %v", err)
			os.Exit(1)
		}
		defer sub.Close()

		err = sub.Subscribe(eventsSubject, "lensctl-tail", func(ctx context.Context, event events.Event) error {
			data, _ := json.Marshal(event.Payload())
			color.Cyan("[%s] %s", event.Timestamp().Format(time.RFC3339), event.EventType())
			fmt.Printf("  %s\n", string(data))
			return nil
		})
		if err != nil {
			color.Red("Subscribe failed: %v", err)
			os.Exit(1)
		}

		color.Green("Tailing %s. Ctrl+C to stop.", eventsSubject)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
	},
}

func init() {
	endStaleCmd.Flags().DurationVar(&endStaleIdle, "idle", 6*time.Hour, "idle window before an active session is considered abandoned")
	purgeCmd.Flags().DurationVar(&purgeAge, "age", 30*24*time.Hour, "retention window for ended sessions")
	eventsCmd.Flags().StringVar(&eventsSubject, "subject", "lecture.>", "subject filter to tail")

	rootCmd.AddCommand(endStaleCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
