// Package cli implements the pigroup command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/app"
	"github.com/aussiebroadwan/pigroup/pkg/slogx"
)

var (
	okLabel    = color.New(color.FgGreen)
	infoLabel  = color.New(color.FgYellow)
	errorLabel = color.New(color.FgRed)
)

// options holds flag values shared by every subcommand.
type options struct {
	envFile    string
	baseURL    string
	backend    string
	dbPath     string
	verbose    int
	silent     bool
	jsonOutput bool

	restartDNS bool
	port       int
}

func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "pigroup [command] [flags]",
		Short: "Move Pi-hole clients in and out of groups",
		Long: `pigroup adds or removes a Pi-hole client, found by its comment, to or from a
group, found by its name. It talks to the Pi-hole v6 API by default or edits
the gravity database directly with --backend local.

Examples:
  # Put the Fire TV in the Unresolved group
  pigroup append

  # Take a named client out of a named group on another Pi-hole
  pigroup remove --client-comment "Kids tablet" --group-name Blocked --base-url http://10.0.0.2

  # Flip membership and restart the resolver so it applies at once
  pigroup flip --restart-dns

  # Serve the JSON API for the front-end
  pigroup serve --port 8081`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.envFile, "env-file", ".env", "Optional KEY=value file loaded before reading the environment")
	pf.StringVar(&o.baseURL, "base-url", "http://pi.hole:8080", "Pi-hole web server address")
	pf.StringVar(&o.backend, "backend", app.BackendRemote, "Backend to use: remote (Pi-hole API) or local (gravity database)")
	pf.StringVar(&o.dbPath, "db", "/etc/pihole/gravity.db", "Gravity database for the local backend")
	pf.CountVarP(&o.verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
	pf.BoolVar(&o.silent, "silent", false, "Disable logging")
	pf.BoolVarP(&o.jsonOutput, "json", "j", false, "Output in JSON format")

	root.AddCommand(newToggleCmds(o)...)
	root.AddCommand(
		newGroupsCmd(o),
		newClientsCmd(o),
		newRestartDNSCmd(o),
		newServeCmd(o),
		newVersionCmd(o),
	)

	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o := &options{}
	root := newRootCmd(o)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if o.jsonOutput {
			_ = printJSON(stdout, map[string]string{"error": err.Error()})
		} else {
			errorLabel.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// config layers flags that were set explicitly over the environment.
func (o *options) config(cmd *cobra.Command) (app.Config, error) {
	if err := app.LoadDotEnv(o.envFile); err != nil {
		return app.Config{}, err
	}
	cfg := app.LoadConfig()

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("db") {
		cfg.DatabaseFile = o.dbPath
	}
	if flags.Changed("restart-dns") {
		cfg.RestartDNS = o.restartDNS
	}
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if o.verbose > 0 || o.silent {
		cfg.LogLevel = slogx.VerbosityLevel(o.verbose, o.silent)
	}
	cfg.LogOutput = cmd.ErrOrStderr()

	return cfg, nil
}

// run builds the application for one command and closes it afterwards.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, a *app.Application) error) error {
	cfg, err := o.config(cmd)
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := slogx.WithContext(cmd.Context(), a.Logger())
	return fn(ctx, a)
}

func newVersionCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pigroup version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{"version": app.BuildVersion})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "pigroup %s\n", app.BuildVersion)
			return err
		},
	}
}

func printJSON(w io.Writer, data any) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
