package cli

import (
	"context"
	"fmt"

	"project-tracker-api/internal/auth"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/store"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// BootstrapDirectorCmd returns the bootstrap-director command.
// It creates the first director account, which can then add everyone else.
func BootstrapDirectorCmd() *cobra.Command {
	var name, username, email, password string
	var force bool

	cmd := &cobra.Command{
		Use:   "bootstrap-director",
		Short: "Create the initial director account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			_, db, err := setup()
			if err != nil {
				return err
			}
			s := store.NewGormStore(db)
			ctx := context.Background()

			employees, err := s.FindEmployees(ctx)
			if err != nil {
				return err
			}
			for _, e := range employees {
				if e.Role == models.RoleDirector && !force {
					fmt.Printf("%s director %s already exists, use --force to add another\n",
						color.New(color.FgYellow).Sprint("!"), e.Username)
					return nil
				}
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			director := models.Employee{
				Name:     name,
				Username: username,
				Email:    email,
				Password: hash,
				Role:     models.RoleDirector,
			}
			if err := s.CreateEmployee(ctx, &director); err != nil {
				return err
			}
			fmt.Printf("%s created director %s (%s)\n", color.New(color.FgGreen).Sprint("✓"), director.Username, director.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Director", "display name")
	cmd.Flags().StringVar(&username, "username", "director", "login username")
	cmd.Flags().StringVar(&email, "email", "director@example.com", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().BoolVar(&force, "force", false, "create even if a director exists")
	return cmd
}
