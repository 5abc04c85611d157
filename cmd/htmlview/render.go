package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-htmlview/internal/datafile"
	"github.com/goliatone/go-htmlview/internal/prompt"
)

type renderFlags struct {
	data        []string
	set         []string
	output      string
	interactive bool
}

func newRenderCmd(a *app) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [id...]",
		Short: "Render a view to HTML",
		Long: `Render the first of the given template identifiers that exists.

Context data comes from --data files (JSON or YAML, "-" for stdin, later files
win) and --set key=value pairs, which win over files.`,
		Example: `  htmlview render home --set title=Welcome
  htmlview render admin:dashboard --data fixtures/admin.yaml -o out.html
  htmlview render --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, flags, args)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.data, "data", "d", nil, "context data file (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.set, "set", "s", nil, "context value as key=value (repeatable)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "prompt for the template and context values")

	return cmd
}

func runRender(cmd *cobra.Command, a *app, flags renderFlags, ids []string) error {
	ctx := cmd.Context()

	r, err := a.renderer()
	if err != nil {
		return err
	}

	data, err := datafile.LoadAll(flags.data...)
	if err != nil {
		return err
	}
	data, err = datafile.Apply(data, flags.set)
	if err != nil {
		return err
	}

	if flags.interactive {
		session, err := prompt.NewSession(prompt.NewSurveyDriver(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			available, err := discoverTemplates(r.Namespaces())
			if err != nil {
				return err
			}
			id, err := session.ChooseTemplate(ctx, available)
			if err != nil {
				return err
			}
			ids = []string{id}
		}
		if data, err = session.CollectContext(ctx, data); err != nil {
			return err
		}
	}

	if len(ids) == 0 {
		return errors.New("render: at least one template identifier is required")
	}

	html, err := r.RenderFirst(ctx, ids, data)
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), html+"\n")
		return err
	}
	if err := os.WriteFile(flags.output, []byte(html), 0o644); err != nil {
		return fmt.Errorf("render: write output: %w", err)
	}
	a.logger.Info("view written", "path", flags.output, "bytes", len(html))
	return nil
}
