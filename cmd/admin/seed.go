package main

import (
	"context"
	"log"
	"os"

	"inspectdesk/internal/database"
	"inspectdesk/internal/domain"
	"inspectdesk/internal/pkg/validator"
	"inspectdesk/internal/repository"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// seedFixture is the YAML shape of a seed file: one account with its
// pricing configuration and inspector roster.
type seedFixture struct {
	Account struct {
		Name    string         `yaml:"name" validate:"required"`
		Email   string         `yaml:"email" validate:"required,email"`
		Pricing fixturePricing `yaml:"pricing"`
	} `yaml:"account"`

	Inspectors []struct {
		FirstName string           `yaml:"first_name" validate:"required"`
		LastName  string           `yaml:"last_name" validate:"required"`
		Email     string           `yaml:"email" validate:"required,email"`
		Phone     string           `yaml:"phone"`
		Password  string           `yaml:"password" validate:"required,min=8"`
		Timeslots map[string][]int `yaml:"timeslots" validate:"dive,dive,gte=0,lt=1440"`
	} `yaml:"inspectors" validate:"min=1,dive"`
}

// fixturePricing is the YAML shape of an account pricing configuration,
// shared by the seed and pricing subcommands.
type fixturePricing struct {
	TaxRate  float64 `yaml:"tax_rate" validate:"gte=0,lt=1"`
	Services []struct {
		Short string  `yaml:"short" validate:"required"`
		Long  string  `yaml:"long" validate:"required"`
		Price float64 `yaml:"price" validate:"gte=0"`
	} `yaml:"services" validate:"min=1,dive"`
	SqftPricing       fixtureTiers `yaml:"sqft_pricing"`
	AgePricing        fixtureTiers `yaml:"age_pricing"`
	FoundationPricing struct {
		Basement   float64 `yaml:"basement"`
		Slab       float64 `yaml:"slab"`
		Crawlspace float64 `yaml:"crawlspace"`
	} `yaml:"foundation_pricing"`
}

func (p fixturePricing) toDomain() domain.PricingConfig {
	cfg := domain.PricingConfig{
		TaxRate:     p.TaxRate,
		SqftPricing: p.SqftPricing.toDomain(),
		AgePricing:  p.AgePricing.toDomain(),
		FoundationPricing: domain.FoundationPricing{
			Basement:   p.FoundationPricing.Basement,
			Slab:       p.FoundationPricing.Slab,
			Crawlspace: p.FoundationPricing.Crawlspace,
		},
	}
	for _, svc := range p.Services {
		cfg.Services = append(cfg.Services, domain.ServiceDef{
			ShortName: svc.Short,
			LongName:  svc.Long,
			Price:     svc.Price,
		})
	}
	return cfg
}

type fixtureTiers struct {
	Enabled bool `yaml:"enabled"`
	Ranges  []struct {
		Floor int     `yaml:"floor"`
		Price float64 `yaml:"price"`
	} `yaml:"ranges"`
}

func (f fixtureTiers) toDomain() domain.TierPricing {
	out := domain.TierPricing{Enabled: f.Enabled}
	for _, r := range f.Ranges {
		out.Ranges = append(out.Ranges, domain.PriceTier{Floor: r.Floor, Price: r.Price})
	}
	return out
}

func seedCmd() *cobra.Command {
	var fixturePath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo account from a YAML fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(fixturePath)
			if err != nil {
				return err
			}
			var fixture seedFixture
			if err := yaml.Unmarshal(raw, &fixture); err != nil {
				return err
			}
			if err := validator.Struct(fixture); err != nil {
				return err
			}

			db, err := database.Connect(databaseURL)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}

			ctx := context.Background()
			accounts := repository.NewAccountRepository(db)
			inspectors := repository.NewInspectorRepository(db)

			account := &domain.Account{
				Name:    fixture.Account.Name,
				Email:   fixture.Account.Email,
				Pricing: fixture.Account.Pricing.toDomain(),
			}
			if err := accounts.Create(ctx, account); err != nil {
				return err
			}
			log.Printf("account %d created: %s", account.ID, account.Name)

			for _, ins := range fixture.Inspectors {
				hash, err := bcrypt.GenerateFromPassword([]byte(ins.Password), bcrypt.DefaultCost)
				if err != nil {
					return err
				}

				var slots domain.WeeklyTimeslots
				for day, minutes := range ins.Timeslots {
					if !domain.IsWeekday(day) {
						log.Printf("skipping unknown weekday %q for %s", day, ins.Email)
						continue
					}
					slots.SetBucket(day, minutes)
				}

				inspector := &domain.Inspector{
					AccountID:    account.ID,
					Email:        ins.Email,
					FirstName:    ins.FirstName,
					LastName:     ins.LastName,
					Phone:        ins.Phone,
					PasswordHash: string(hash),
					Timeslots:    slots,
				}
				if err := inspectors.Create(ctx, inspector); err != nil {
					return err
				}
				log.Printf("inspector %d created: %s", inspector.ID, inspector.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "seed.yaml", "path to the YAML fixture")
	return cmd
}
