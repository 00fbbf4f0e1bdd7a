package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/foodsearch/internal/config"
	"github.com/JonMunkholm/foodsearch/internal/core"
	"github.com/JonMunkholm/foodsearch/internal/logging"
	"github.com/JonMunkholm/foodsearch/internal/source"
)

// app holds state shared by subcommands for one invocation.
type app struct {
	out     io.Writer
	errOut  io.Writer
	cfg     *config.Config
	asJSON  bool
	service *core.Service
	closeFn func()
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "foodctl",
		Short: "Query a food catalog from the command line",
		Long: `foodctl loads the food, menu, nutrition and food_menu tables from a
directory, S3, PostgreSQL or SQLite and runs the same queries as the
search server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	registerFlags(root.PersistentFlags())

	root.AddCommand(
		newSearchCmd(a),
		newNutrientCmd(a),
		newInspectCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.asJSON, _ = cmd.Flags().GetBool("json")

	slog.SetDefault(logging.New(a.errOut, cfg.Logging.Level, cfg.Logging.Format))
	return nil
}

// session lazily opens the configured source. The first query triggers
// the load.
func (a *app) session(ctx context.Context) (*core.Service, error) {
	if a.service != nil {
		return a.service, nil
	}
	session, closeFn, err := source.NewSession(ctx, a.cfg, nil)
	a.closeFn = closeFn
	if err != nil {
		return nil, err
	}
	a.service = core.NewService(session, nil)
	return a.service, nil
}

// close releases the source opened by session.
func (a *app) close() {
	if a.closeFn != nil {
		a.closeFn()
		a.closeFn = nil
	}
}

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}
