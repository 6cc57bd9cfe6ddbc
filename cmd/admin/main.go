package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var databaseURL string

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "admin",
		Short: "Operational tooling for the scheduling backend",
	}
	root.PersistentFlags().StringVar(&databaseURL, "database", defaultDatabaseURL(), "database DSN or sqlite path")

	root.AddCommand(migrateCmd(), seedCmd(), pricingCmd(), cleanupCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func defaultDatabaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return "inspectdesk.db"
}
