package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-parking-reservation/internal/config"
	"github.com/sanosuguru/go-parking-reservation/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "データベースマイグレーションを操作する",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "マイグレーションファイルのディレクトリ（未指定時は MIGRATIONS_PATH）")

	// migrationsPath はフラグ優先で設定値にフォールバックする
	migrationsPath := func(cfg *config.Config) string {
		if path != "" {
			return path
		}
		return cfg.Database.MigrationsPath
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "未適用のマイグレーションをすべて適用する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.Env)
			db, err := postgres.NewConnection(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.RunMigrations(db.DB, migrationsPath(cfg)); err != nil {
				return err
			}
			logger.Info("マイグレーションを適用しました", zap.String("path", migrationsPath(cfg)))
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "マイグレーションを指定数だけ戻す",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps は1以上を指定してください")
			}
			cfg := config.Load()
			logger.Init(cfg.Env)
			db, err := postgres.NewConnection(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.RollbackMigrations(db.DB, migrationsPath(cfg), steps); err != nil {
				return err
			}
			logger.Info("マイグレーションを戻しました", zap.Int("steps", steps))
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "戻すマイグレーションの数")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "適用済みのマイグレーションバージョンを表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := postgres.NewConnection(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			version, dirty, err := postgres.MigrationVersion(db.DB, migrationsPath(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		},
	})

	return cmd
}
