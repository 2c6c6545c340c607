package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"noteshare/internal/config"
	"noteshare/internal/migrations"
	"noteshare/internal/repository/postgres"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "noteshare-migrate",
	Short: "Manage the noteshare database schema",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file, using the environment")
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Run up migrations",
	Long:  "Run all pending 'up' migrations by default.\nIf step is provided, it will run `N` 'up' migrations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		step, err := cmd.Flags().GetInt("step")
		if err != nil {
			return fmt.Errorf("read flag `step`: %w", err)
		}

		return withMigrator(cmd.Context(), func(m *migrations.Migrator) error {
			n, err := m.Up(cmd.Context(), step)
			if err != nil {
				return fmt.Errorf("run `up` migrations: %w", err)
			}
			fmt.Printf("Applied %d migration(s)\n", n)
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Run down migrations",
	Long:  "Revert the most recent migration by default.\nIf step is provided, it will revert `N` migrations; --step 0 reverts all of them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		step, err := cmd.Flags().GetInt("step")
		if err != nil {
			return fmt.Errorf("read flag `step`: %w", err)
		}

		return withMigrator(cmd.Context(), func(m *migrations.Migrator) error {
			n, err := m.Down(cmd.Context(), step)
			if err != nil {
				return fmt.Errorf("run `down` migrations: %w", err)
			}
			fmt.Printf("Reverted %d migration(s)\n", n)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *migrations.Migrator) error {
			statuses, err := m.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch migration status: %w", err)
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED")
			for _, s := range statuses {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", s.Version, s.Name, s.Applied)
			}
			return tw.Flush()
		})
	},
}

func withMigrator(ctx context.Context, fn func(*migrations.Migrator) error) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: 2})
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := migrations.NewMigrator(ctx, pool, postgres.NewTableNames(cfg.TablePrefix), logger)
	if err != nil {
		return err
	}
	return fn(migrator)
}

func init() {
	upCmd.Flags().IntP("step", "s", 0, "Number of migrations to execute (0 = all)")
	downCmd.Flags().IntP("step", "s", 1, "Number of migrations to revert (0 = all)")

	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalln(err.Error())
	}
}
