package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/cookeasy/backend/config"
	"github.com/cookeasy/backend/internal/database"
)

func main() {
	rollback := flag.Bool("rollback", false, "Roll back the most recent migration")
	status := flag.Bool("status", false, "Show applied and pending migrations")
	backfill := flag.Bool("backfill-categories", false, "Link recipes to their primary category in recipe_categories")
	timeout := flag.Duration("timeout", 5*time.Minute, "Give up after this long")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logrus.Fatalf("Failed to ping database: %v", err)
	}

	migrator, err := database.NewMigrator(db)
	if err != nil {
		logrus.Fatalf("Failed to load migrations: %v", err)
	}

	switch {
	case *status:
		err = printStatus(ctx, migrator)
	case *rollback:
		var reverted *database.Migration
		reverted, err = migrator.Down(ctx)
		if err == nil && reverted == nil {
			logrus.Info("Nothing to roll back")
		}
	case *backfill:
		err = backfillCategories(ctx, cfg)
	default:
		var applied int
		applied, err = migrator.Up(ctx)
		if err == nil {
			logrus.Infof("Migrations completed successfully (%d applied)", applied)
		}
	}
	if err != nil {
		logrus.Fatalf("Migration failed: %v", err)
	}
}

func printStatus(ctx context.Context, migrator *database.Migrator) error {
	applied, err := migrator.Applied(ctx)
	if err != nil {
		return err
	}
	pending, err := migrator.Pending(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Applied:")
	for _, a := range applied {
		fmt.Printf("  %03d_%s  %s\n", a.Version, a.Name, a.AppliedAt.Format(time.RFC3339))
	}
	fmt.Println("Pending:")
	for _, m := range pending {
		fmt.Printf("  %03d_%s\n", m.Version, m.Name)
	}
	return nil
}

func backfillCategories(ctx context.Context, cfg *config.Config) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	linked, err := database.BackfillRecipeCategories(ctx, db.DB)
	if err != nil {
		return err
	}
	logrus.Infof("Linked %d recipes to their primary category", linked)
	return nil
}
