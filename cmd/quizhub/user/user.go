// Package user implements the user administration commands.
package user

import (
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/quizhub/quizhub/cmd"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/store"
	"github.com/spf13/cobra"
)

// Command is the user command.
var Command = &cobra.Command{
	Use:                "user",
	Aliases:            []string{"users"},
	Short:              "Manage users",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	var admin bool
	var email, password string
	userCreateCommand := &cobra.Command{
		Use:   "create USERNAME",
		Short: "Create a new user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			u, err := be.CreateUser(ctx, args[0], email, password, admin)
			if err != nil {
				return err
			}

			cmd.Println("Created user", u.Username, "with id", u.ID)
			return nil
		},
	}

	userCreateCommand.Flags().BoolVarP(&admin, "admin", "a", false, "make the user a site admin")
	userCreateCommand.Flags().StringVarP(&email, "email", "e", "", "email of the user")
	userCreateCommand.Flags().StringVarP(&password, "password", "p", "", "password of the user")
	_ = userCreateCommand.MarkFlagRequired("email")
	_ = userCreateCommand.MarkFlagRequired("password")

	var page store.Page
	userListCommand := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			users, err := be.Users(ctx, page)
			if err != nil {
				return err
			}

			if len(users) == 0 {
				cmd.Println("No users found")
				return nil
			}

			return tablewriter.Render(
				cmd.OutOrStdout(),
				users,
				[]string{"ID", "Username", "Email", "Admin", "Created"},
				func(u models.User) ([]string, error) {
					return []string{
						strconv.FormatInt(u.ID, 10),
						u.Username,
						u.Email,
						strconv.FormatBool(u.IsAdmin),
						humanize.Time(u.CreatedAt),
					}, nil
				},
			)
		},
	}

	userListCommand.Flags().IntVar(&page.Offset, "offset", 0, "number of users to skip")
	userListCommand.Flags().IntVar(&page.Limit, "limit", store.DefaultPageSize, "maximum number of users to list")

	userSetAdminCommand := &cobra.Command{
		Use:   "set-admin USERNAME [true|false]",
		Short: "Grant or revoke site admin rights",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			isAdmin, err := strconv.ParseBool(args[1])
			if err != nil {
				return err
			}

			return be.SetUserAdmin(ctx, args[0], isAdmin)
		},
	}

	Command.AddCommand(
		userCreateCommand,
		userListCommand,
		userSetAdminCommand,
	)
}
