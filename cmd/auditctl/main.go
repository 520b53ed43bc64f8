// auditctl tareas de administración fuera del API: migraciones, alta del primer
// superadmin y carga del catálogo CIE-11.
//
// Uso:
//
//	auditctl migrate up
//	auditctl migrate status
//	auditctl superadmin create --email admin@ips.co --name "Admin" --password '...'
//	auditctl cie11 import --file catalogo.xlsx
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Auditoria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Auditoria-api/pkg/config"
	"github.com/jhoicas/Auditoria-api/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "auditctl",
		Short:         "Administración de Auditoría Médica API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(superadminCmd())
	rootCmd.AddCommand(cie11Cmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// connect carga la configuración, inicializa el logger global y abre el pool.
func connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "auditctl"})
	return postgres.NewPool(ctx, cfg.DB)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de base de datos",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := postgres.NewMigrator(pool).Up(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migraciones aplicadas\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Muestra el estado de las migraciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := postgres.NewMigrator(pool).Status(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, st := range statuses {
				state := "pendiente"
				if st.Applied {
					state = "aplicada " + st.AppliedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(out, "%03d  %-30s  %s\n", st.Version, st.Name, state)
			}
			return nil
		},
	})
	return cmd
}
