package main

import (
	"context"
	"log"
	"time"

	"inspectdesk/internal/database"
	"inspectdesk/internal/repository"

	"github.com/spf13/cobra"
)

func cleanupCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Prune delivered notification outbox rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect(databaseURL)
			if err != nil {
				return err
			}

			outbox := repository.NewOutboxRepository(db)
			removed, err := outbox.PruneSent(context.Background(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			log.Printf("pruned %d delivered notifications", removed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "minimum age of delivered rows to prune")
	return cmd
}
