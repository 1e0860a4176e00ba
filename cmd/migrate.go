package cmd

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/spf13/cobra"

	"codepay/db/pg"
	_ "codepay/migration"

	_ "github.com/lib/pq"

	"github.com/pressly/goose/v3"
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "migrate the wallet database",
		Long:  `This command migrates the postgres wallet store by goose`,
		Run: func(cmd *cobra.Command, args []string) {
			down, _ := cmd.Flags().GetBool("down")

			if down && cmd.Flags().Changed("up") {
				cmd.Help()
				return
			}

			if err := goose.SetDialect("postgres"); err != nil {
				log.Fatalf("Failed to set goose dialect: %v", err)
			}

			db, err := sql.Open("postgres", pg.CreateDSN())
			if err != nil {
				log.Fatalf("Failed to open database: %v", err)
			}
			defer db.Close()

			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()
			if err := db.PingContext(pingCtx); err != nil {
				log.Fatalf("Failed to ping database: %v", err)
			}
			log.Println("Successfully connected to the database.")

			if err := pg.CreateSchema(db); err != nil {
				log.Fatalf("Failed to create schema: %v", err)
			}

			ctx := context.Background()
			migrationsDir := "migration"
			if down {
				log.Println("Rolling back the last migration...")
				if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
					log.Fatalf("Goose DownContext failed: %v", err)
				}
			} else {
				log.Println("Running 'up' migrations...")
				if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
					log.Fatalf("Goose UpContext failed: %v", err)
				}
			}
			log.Println("Goose operations completed.")

			if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
				log.Fatalf("Goose StatusContext failed: %v", err)
			}
		},
	}

	cmd.Flags().BoolP("up", "u", true, "apply every pending migration")
	cmd.Flags().BoolP("down", "d", false, "roll back the last migration")

	return cmd
}
