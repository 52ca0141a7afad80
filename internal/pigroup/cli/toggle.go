package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/app"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
	"github.com/aussiebroadwan/pigroup/internal/pigroup/membership"
)

const (
	defaultClientComment = "Fire TV cube"
	defaultGroupName     = "Unresolved"
)

func newToggleCmds(o *options) []*cobra.Command {
	return []*cobra.Command{
		newToggleCmd(o, "append", membership.Add, "Add the client to the group"),
		newToggleCmd(o, "remove", membership.Remove, "Remove the client from the group"),
		newToggleCmd(o, "flip", membership.Flip, "Remove the client from the group if it is a member, add it otherwise"),
	}
}

func newToggleCmd(o *options, use string, op membership.Operation, short string) *cobra.Command {
	var clientComment, groupName string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `. The client is found by its comment and the group by its
name, both matched exactly. Nothing is written when the client is already in
the requested state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.Application) error {
				res, err := a.Toggle(ctx, op, clientComment, groupName)
				if err != nil {
					return err
				}
				return o.printResult(cmd.OutOrStdout(), res, clientComment, groupName)
			})
		},
	}

	cmd.Flags().StringVarP(&clientComment, "client-comment", "c", defaultClientComment, "Comment identifying the client")
	cmd.Flags().StringVarP(&groupName, "group-name", "g", defaultGroupName, "Name of the group")
	cmd.Flags().BoolVar(&o.restartDNS, "restart-dns", false, "Restart the Pi-hole resolver after a change (remote backend)")

	return cmd
}

func (o *options) printResult(w io.Writer, res membership.Result, clientComment, groupName string) error {
	if o.jsonOutput {
		return printJSON(w, res)
	}

	label := infoLabel
	if res.Outcome == domain.Changed {
		label = okLabel
	}
	if _, err := label.Fprintf(w, "%s", res.Outcome); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, ": %s %q (client %d) group %q (group %d), groups now %v\n",
		res.Op, clientComment, res.ClientID, groupName, res.GroupID, res.GroupIDs)
	return err
}
