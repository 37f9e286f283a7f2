package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cookeasy/backend/config"
	"github.com/cookeasy/backend/internal/database"
	"github.com/cookeasy/backend/internal/seed"
)

var (
	fixturesFile string
	password     string
	migrate      bool
	verbose      bool
	timeout      time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data into the CookEasy database",
	Long: `Seeds categories, ingredients, users and recipes from YAML fixtures.
Rows that already exist are left untouched, so the command can be re-run safely.`,
	SilenceUsage: true,
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Seed everything in dependency order",
	RunE: withSeeder(func(ctx context.Context, s *seed.Seeder, f *seed.Fixtures) error {
		res, err := s.All(ctx, f)
		if err != nil {
			return err
		}
		fmt.Printf("Created %d categories, %d ingredients, %d users, %d recipes\n",
			res.Categories, res.Ingredients, res.Users, res.Recipes)
		return nil
	}),
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Seed recipe categories",
	RunE: withSeeder(func(ctx context.Context, s *seed.Seeder, f *seed.Fixtures) error {
		n, err := s.Categories(ctx, f.Categories)
		if err == nil {
			fmt.Printf("Created %d categories\n", n)
		}
		return err
	}),
}

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "Seed the ingredient catalog",
	RunE: withSeeder(func(ctx context.Context, s *seed.Seeder, f *seed.Fixtures) error {
		n, err := s.Ingredients(ctx, f.Ingredients)
		if err == nil {
			fmt.Printf("Created %d ingredients\n", n)
		}
		return err
	}),
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Seed test accounts for every role",
	RunE: withSeeder(func(ctx context.Context, s *seed.Seeder, f *seed.Fixtures) error {
		n, err := s.Users(ctx, f.Users)
		if err == nil {
			fmt.Printf("Created %d users\n", n)
		}
		return err
	}),
}

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Seed recipes (authors and categories must already exist)",
	RunE: withSeeder(func(ctx context.Context, s *seed.Seeder, f *seed.Fixtures) error {
		n, err := s.Recipes(ctx, f.Recipes)
		if err == nil {
			fmt.Printf("Created %d recipes\n", n)
		}
		return err
	}),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&fixturesFile, "file", "f", "", "YAML fixtures file (default: built-in fixtures)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Password for seeded users without one (default: "+seed.DefaultPassword+")")
	rootCmd.PersistentFlags().BoolVar(&migrate, "migrate", false, "Run migrations before seeding")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(allCmd, categoriesCmd, ingredientsCmd, usersCmd, recipesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type seedFunc func(ctx context.Context, s *seed.Seeder, f *seed.Fixtures) error

// withSeeder connects to the configured database and hands fn a ready seeder
func withSeeder(fn seedFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := logrus.New()
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		fixtures, err := loadFixtures()
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		if migrate {
			if err := database.RunMigrations(ctx, db); err != nil {
				return err
			}
		}

		return fn(ctx, seed.New(db.DB, logger).WithPassword(password), fixtures)
	}
}

func loadFixtures() (*seed.Fixtures, error) {
	if fixturesFile == "" {
		return seed.Default()
	}
	return seed.LoadFile(fixturesFile)
}
