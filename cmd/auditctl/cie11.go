package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Auditoria-api/internal/infrastructure/spreadsheet"
)

// systemActor identifica las cargas hechas desde la consola.
var systemActor = access.Actor{UserID: "auditctl", Role: entity.RoleSuperAdmin, Scope: access.Unrestricted()}

func cie11Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cie11",
		Short: "Catálogo de diagnósticos CIE-11",
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Carga el catálogo desde un .xlsx o .csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			maxRows, _ := cmd.Flags().GetInt("max-rows")

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}
			rows, err := spreadsheet.Read(filepath.Base(path), f, info.Size())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := usecase.NewCIE11UseCase(postgres.NewCIE11Repository(pool), maxRows)
			summary, err := uc.Import(ctx, systemActor, rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total %d, creados %d, duplicados %d, errores %d\n",
				summary.Total, summary.Created, len(summary.Duplicates), len(summary.Errors))
			for _, e := range summary.Errors {
				log.Warn().Int("row", e.Row).Msg(e.Message)
			}
			return nil
		},
	}
	importCmd.Flags().String("file", "", "Ruta del archivo .xlsx o .csv")
	importCmd.Flags().Int("max-rows", 100000, "Máximo de filas de datos")
	_ = importCmd.MarkFlagRequired("file")

	cmd.AddCommand(importCmd)
	return cmd
}
