// Package company implements the company inspection commands.
package company

import (
	"context"
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/quizhub/quizhub/cmd"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/store"
	"github.com/spf13/cobra"
)

var (
	// as is the username whose view is listed. Without it only visible
	// companies are shown.
	as string

	// Command is the company command.
	Command = &cobra.Command{
		Use:                "company",
		Aliases:            []string{"companies"},
		Short:              "Inspect companies",
		PersistentPreRunE:  cmd.InitBackendContext,
		PersistentPostRunE: cmd.CloseDBContext,
	}
)

// caller resolves the --as flag to a user id.
func caller(ctx context.Context, be *backend.Backend) (int64, error) {
	if as == "" {
		return 0, nil
	}
	u, err := be.User(ctx, as)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func init() {
	Command.PersistentFlags().StringVar(&as, "as", "", "list as seen by this username")

	var page store.Page
	companyListCommand := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List companies",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			id, err := caller(ctx, be)
			if err != nil {
				return err
			}

			cs, err := be.Companies(ctx, id, page)
			if err != nil {
				return err
			}

			if len(cs) == 0 {
				cmd.Println("No companies found")
				return nil
			}

			return tablewriter.Render(
				cmd.OutOrStdout(),
				cs,
				[]string{"ID", "Name", "Owner", "Visible", "Created"},
				func(c models.Company) ([]string, error) {
					return []string{
						strconv.FormatInt(c.ID, 10),
						c.Name,
						strconv.FormatInt(c.OwnerID, 10),
						strconv.FormatBool(c.Visible),
						humanize.Time(c.CreatedAt),
					}, nil
				},
			)
		},
	}

	companyListCommand.Flags().IntVar(&page.Offset, "offset", 0, "number of companies to skip")
	companyListCommand.Flags().IntVar(&page.Limit, "limit", store.DefaultPageSize, "maximum number of companies to list")

	companyMembersCommand := &cobra.Command{
		Use:   "members COMPANY_ID",
		Short: "List the members of a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			company, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			id, err := caller(ctx, be)
			if err != nil {
				return err
			}

			ms, err := be.CompanyMembers(ctx, id, company)
			if err != nil {
				return err
			}

			return tablewriter.Render(
				cmd.OutOrStdout(),
				ms,
				[]string{"User ID", "Username", "Role"},
				func(m models.MemberEntry) ([]string, error) {
					return []string{
						strconv.FormatInt(m.UserID, 10),
						m.Username,
						m.Role.String(),
					}, nil
				},
			)
		},
	}

	Command.AddCommand(
		companyListCommand,
		companyMembersCommand,
	)
}
