package main

import (
	"context"
	"log"
	"os"

	"inspectdesk/internal/database"
	"inspectdesk/internal/pkg/validator"
	"inspectdesk/internal/repository"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func pricingCmd() *cobra.Command {
	var accountID int64
	var fixturePath string

	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Replace an account's pricing configuration from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(fixturePath)
			if err != nil {
				return err
			}
			var pricing fixturePricing
			if err := yaml.Unmarshal(raw, &pricing); err != nil {
				return err
			}
			if err := validator.Struct(pricing); err != nil {
				return err
			}

			db, err := database.Connect(databaseURL)
			if err != nil {
				return err
			}

			accounts := repository.NewAccountRepository(db)
			if err := accounts.UpdatePricing(context.Background(), accountID, pricing.toDomain()); err != nil {
				return err
			}
			log.Printf("pricing updated for account %d", accountID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "account id to update")
	cmd.Flags().StringVar(&fixturePath, "file", "pricing.yaml", "path to the pricing YAML file")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}
