package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v2"

	"bookseller/internal/config"
	"bookseller/internal/platform/database"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "migrate",
		Usage: "manage the bookseller database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(c *cli.Context) error {
					return withDB(c, func(ctx context.Context, cfg *config.Config, db *sql.DB) error {
						if err := goose.UpContext(ctx, db, cfg.MigrationsDir); err != nil {
							return fmt.Errorf("run migrations: %w", err)
						}
						fmt.Println("Migrations applied successfully")
						return nil
					})
				},
			},
			{
				Name:  "down",
				Usage: "roll back the latest migration",
				Action: func(c *cli.Context) error {
					return withDB(c, func(ctx context.Context, cfg *config.Config, db *sql.DB) error {
						if err := goose.DownContext(ctx, db, cfg.MigrationsDir); err != nil {
							return fmt.Errorf("rollback migrations: %w", err)
						}
						fmt.Println("Migrations rolled back successfully")
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print the applied state of every migration",
				Action: func(c *cli.Context) error {
					return withDB(c, func(ctx context.Context, cfg *config.Config, db *sql.DB) error {
						return goose.StatusContext(ctx, db, cfg.MigrationsDir)
					})
				},
			},
			{
				Name:      "create",
				Usage:     "create a new SQL migration",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return errors.New("a migration name is required")
					}
					cfg, err := config.Load(".env", ".env.local")
					if err != nil {
						return fmt.Errorf("load config: %w", err)
					}
					if err := goose.Create(nil, cfg.MigrationsDir, name, "sql"); err != nil {
						return fmt.Errorf("create migration: %w", err)
					}
					fmt.Printf("Migration created: %s\n", name)
					return nil
				},
			},
		},
	}
}

func withDB(c *cli.Context, fn func(ctx context.Context, cfg *config.Config, db *sql.DB) error) error {
	cfg, err := config.Load(".env", ".env.local")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := c.Context
	pool, err := database.Open(ctx, cfg.DatabaseDSN, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect to database (%s): %w", cfg.RedactedDSN(), err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return fn(ctx, cfg, db)
}
