// Package main provides the htmlview command: render views from the terminal,
// preview them over HTTP and inspect the namespace table.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-htmlview"
	"github.com/goliatone/go-htmlview/internal/config"
	"github.com/goliatone/go-htmlview/pkg/view"
)

// Build info set via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func buildVersion() string {
	if commit == "none" {
		return version
	}
	short := commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s)", version, short)
}

func main() {
	cmd := newRootCmd()
	if err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion())); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by subcommands once configuration is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
}

func (a *app) renderer(extra ...view.Option) (*view.Renderer, error) {
	opts := append(a.cfg.ViewOptions(), view.WithLogger(a.logger))
	opts = append(opts, extra...)
	return htmlview.New(opts...)
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "htmlview",
		Short: "Render server-side views",
		Long: `htmlview renders namespaced view templates to HTML.

Template identifiers look like "[namespace:]path". Without a namespace the
default view directory is used; an empty path means "index".`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./"+config.DefaultFile+" when present)")
	flags.StringP("path", "p", "", "default view directory")
	flags.String("env", "", "environment label (production enables caching)")
	flags.StringToString("namespace", nil, "extra namespace as name=dir (repeatable)")
	flags.Bool("strict-paths", false, "reject identifiers that leave their namespace directory")
	flags.String("cache", "", "template cache: auto, on or off")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	bind := map[string]string{
		"path":         "path",
		"env":          "env",
		"namespaces":   "namespace",
		"strict_paths": "strict-paths",
		"cache.mode":   "cache",
		"log_level":    "log-level",
	}
	for key, name := range bind {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	cmd.AddCommand(newRenderCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newNamespacesCmd(a))
	cmd.AddCommand(newTemplatesCmd(a))
	cmd.AddCommand(newLintCmd(a))

	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	return nil
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
