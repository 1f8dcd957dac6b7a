package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/postgres"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Mantenimiento de sesiones",
}

var sessionsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Elimina las sesiones vencidas",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
			n, err := postgres.NewSessionStorage(pool).PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sesiones eliminadas: %d\n", n)
			return nil
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsPurgeCmd)
	rootCmd.AddCommand(sessionsCmd)
}
