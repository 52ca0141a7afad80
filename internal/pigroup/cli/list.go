package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/app"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
	httpapi "github.com/aussiebroadwan/pigroup/internal/pigroup/http"
)

func newGroupsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.Application) error {
				groups, err := a.Groups(ctx)
				if err != nil {
					return err
				}
				if o.jsonOutput {
					return printJSON(cmd.OutOrStdout(), httpapi.NewListGroupsResponse(groups))
				}
				return printGroups(cmd.OutOrStdout(), groups)
			})
		},
	}
}

func newClientsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List clients and their groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.Application) error {
				clients, err := a.Clients(ctx)
				if err != nil {
					return err
				}
				if o.jsonOutput {
					return printJSON(cmd.OutOrStdout(), httpapi.NewListClientsResponse(clients))
				}
				return printClients(cmd.OutOrStdout(), clients)
			})
		},
	}
}

func newRestartDNSCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restart-dns",
		Short: "Restart the Pi-hole DNS resolver (remote backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.Application) error {
				if err := a.RestartDNS(ctx); err != nil {
					return err
				}
				if o.jsonOutput {
					return printJSON(cmd.OutOrStdout(), map[string]string{"status": "success"})
				}
				_, err := okLabel.Fprintln(cmd.OutOrStdout(), "DNS resolver restarted")
				return err
			})
		},
	}
}

func printGroups(w io.Writer, groups []domain.Group) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tENABLED\tCOMMENT")
	for _, g := range groups {
		comment := ""
		if g.Comment != nil {
			comment = *g.Comment
		}
		fmt.Fprintf(tw, "%d\t%s\t%t\t%s\n", g.ID, g.Name, g.Enabled, comment)
	}
	return tw.Flush()
}

func printClients(w io.Writer, clients []domain.Client) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCLIENT\tCOMMENT\tGROUPS")
	for _, c := range clients {
		ids := make([]string, len(c.GroupIDs))
		for i, id := range c.GroupIDs {
			ids[i] = strconv.FormatUint(uint64(id), 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Address, c.Comment, strings.Join(ids, ","))
	}
	return tw.Flush()
}
