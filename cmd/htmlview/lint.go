package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-htmlview/internal/datafile"
	"github.com/goliatone/go-htmlview/pkg/markup"
	"github.com/goliatone/go-htmlview/pkg/view"
	"github.com/goliatone/go-htmlview/pkg/view/pongo"
)

type violation struct {
	file    string
	id      string
	message string
}

func newLintCmd(a *app) *cobra.Command {
	var (
		data    []string
		compile bool
	)

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check that every template compiles and renders an element",
		Long: `Compile every template found in the namespace directories. Unless
--compile-only is set each template is also rendered with the --data context
and must produce an HTML element.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			ctxData, err := datafile.LoadAll(data...)
			if err != nil {
				return err
			}
			files, err := discoverFiles(r.Namespaces())
			if err != nil {
				return err
			}

			violations, err := lintTemplates(cmd.Context(), r, files, ctxData, compile)
			if err != nil {
				return err
			}
			return reportViolations(cmd.OutOrStdout(), cmd.ErrOrStderr(), len(files), violations)
		},
	}

	cmd.Flags().StringSliceVarP(&data, "data", "d", nil, "context data used when rendering (repeatable)")
	cmd.Flags().BoolVar(&compile, "compile-only", false, "only compile templates")

	return cmd
}

func lintTemplates(ctx context.Context, r *view.Renderer, files []templateFile, data view.Context, compileOnly bool) ([]violation, error) {
	loader, err := pongo.New()
	if err != nil {
		return nil, err
	}

	var result []violation
	for _, file := range files {
		export, err := loader.Load(file.Path)
		if err != nil {
			result = append(result, violation{file: file.Path, id: file.ID, message: err.Error()})
			continue
		}
		if compileOnly {
			continue
		}

		tpl, ok := view.AsTemplate(export)
		if !ok {
			result = append(result, violation{file: file.Path, id: file.ID, message: view.ExportErrorMessage})
			continue
		}
		out, err := tpl.Execute(ctx, r.ApplyDefaultContext(data))
		if err != nil {
			result = append(result, violation{file: file.Path, id: file.ID, message: err.Error()})
			continue
		}
		if _, ok := markup.AsNode(out); !ok {
			result = append(result, violation{file: file.Path, id: file.ID, message: view.OutputErrorMessage})
		}
	}
	return result, nil
}

func reportViolations(out, errOut io.Writer, checked int, violations []violation) error {
	for _, v := range violations {
		fmt.Fprintf(errOut, "%s: %s -> %s\n", v.file, v.id, v.message)
	}
	if len(violations) > 0 {
		return fmt.Errorf("lint: %d of %d template(s) failed", len(violations), checked)
	}
	fmt.Fprintf(out, "%d template(s) ok\n", checked)
	return nil
}
