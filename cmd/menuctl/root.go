package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/postgres"
	"github.com/luchotourn/menusemanal-sub000/pkg/config"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:           "menuctl",
	Short:         "menuctl administra la base de datos de Menú Semanal",
	Long:          "menuctl aplica migraciones y ejecuta tareas de mantenimiento sobre la base de datos del servicio.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Connection string de PostgreSQL (por defecto, la configuración del servicio)")
}

// withPool abre el pool con la misma configuración que cmd/api y lo cierra al terminar.
func withPool(ctx context.Context, run func(*pgxpool.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if databaseURL != "" {
		cfg.DB.DatabaseURL = databaseURL
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	return run(pool)
}
