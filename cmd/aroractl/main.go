// aroractl is the operator CLI: it seeds the taxonomy and runs the legacy
// catalog classification migration. Both commands are idempotent and safe to
// re-run; classification against a live product set should not run twice
// concurrently.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fatihhtaskesenn/arora-backend/internal/adapters/repository"
	"github.com/fatihhtaskesenn/arora-backend/internal/config"
	"github.com/fatihhtaskesenn/arora-backend/internal/services/classification"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "aroractl",
		Short: "Operator tooling for the arora catalog",
	}
	rootCmd.AddCommand(seedCmd(), classifyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func classifyCmd() *cobra.Command {
	var force bool
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Map legacy free-text product categories onto the taxonomy",
		Long: `Runs the classification engine over the full product set. Without --force,
products that already carry a category are skipped; with it, every product is
recomputed from the rule list alone. Products no rule matches are reported and
left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			db, cleanup, err := connect(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			rules := classification.DefaultRules()
			if rulesPath != "" {
				rules, err = classification.LoadRules(rulesPath)
				if err != nil {
					return err
				}
				log.WithField("rules", len(rules)).Infof("Loaded rule overrides from %s", rulesPath)
			}

			taxonomyRepo := repository.NewTaxonomyRepository(db)
			productRepo := repository.NewProductRepository(db)

			index, err := taxonomyRepo.ResolveIndex(ctx)
			if err != nil {
				return err
			}
			products, err := productRepo.ListAll(ctx)
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{"products": len(products), "force": force}).Info("Starting classification run")
			engine := classification.NewEngine(index, productRepo)
			report := engine.Run(ctx, products, rules, classification.RunOptions{Force: force})
			report.Log()
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "recompute products that already carry a category")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule file overriding the built-in rule set")
	return cmd
}

func connect(ctx context.Context) (*mongo.Database, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	clientOptions := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}
	return client.Database(cfg.Mongo.Database), cleanup, nil
}
