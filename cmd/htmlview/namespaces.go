package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-htmlview"
	"github.com/goliatone/go-htmlview/pkg/view"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func newNamespacesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "namespaces",
		Short: "Show the namespace table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatNamespaces(r.Namespaces()))
			return nil
		},
	}
}

func formatNamespaces(namespaces view.Namespaces) string {
	names := namespaces.Names()
	width := len("NAMESPACE")
	for _, name := range names {
		width = max(width, lipgloss.Width(name))
	}
	col := lipgloss.NewStyle().Width(width + 2)

	var b strings.Builder
	b.WriteString(col.Render(headerStyle.Render("NAMESPACE")))
	b.WriteString(headerStyle.Render("DIRECTORY"))
	b.WriteString("\n")
	for _, name := range names {
		dir, _ := namespaces.Lookup(name)
		b.WriteString(col.Render(name))
		b.WriteString(dir)
		b.WriteString(" ")
		b.WriteString(dirStatus(name, dir))
		b.WriteString("\n")
	}
	return b.String()
}

func dirStatus(namespace, dir string) string {
	if namespace == htmlview.BuiltinNamespace {
		return okStyle.Render("(embedded)")
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return okStyle.Render("(ok)")
	}
	return missingStyle.Render("(missing)")
}
