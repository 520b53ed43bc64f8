package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/infrastructure/postgres"
)

func superadminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "superadmin",
		Short: "Usuarios superadmin",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un superadmin (primer acceso al sistema)",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")

			u, err := newSuperAdmin(name, email, password)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.NewUserRepository(pool).Create(ctx, u); err != nil {
				return fmt.Errorf("crear superadmin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "superadmin %s creado (id %s)\n", u.Email, u.ID)
			return nil
		},
	}
	createCmd.Flags().String("email", "", "Email de acceso")
	createCmd.Flags().String("name", "Superadmin", "Nombre visible")
	createCmd.Flags().String("password", "", "Contraseña (mínimo 8 caracteres)")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")

	cmd.AddCommand(createCmd)
	return cmd
}

// newSuperAdmin arma el usuario con la contraseña ya cifrada.
func newSuperAdmin(name, email, password string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("--email inválido")
	}
	hash, err := usecase.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		ID:                  uuid.New().String(),
		Name:                strings.TrimSpace(name),
		Email:               email,
		PasswordHash:        hash,
		Role:                entity.RoleSuperAdmin,
		AssignedCompanies:   []string{},
		CanViewAllCompanies: true,
		Active:              true,
	}, nil
}
