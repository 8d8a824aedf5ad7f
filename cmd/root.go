// Package cmd implements the qrforge command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cristianadrielbraun/qrforge/internal/config"
	"github.com/cristianadrielbraun/qrforge/internal/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

// app carries what every subcommand needs once the settings are loaded.
type app struct {
	cfgFile string
	loader  *config.Loader
	cfg     *config.Config
	log     *logger.Logger
}

// NewRootCommand builds the command tree with a fresh settings loader.
func NewRootCommand() *cobra.Command {
	a := &app{loader: config.NewLoader(nil)}

	root := &cobra.Command{
		Use:   "qrforge",
		Short: "Styled QR code designer",
		Long: `qrforge renders styled QR codes with optional embedded logos.

It runs the web editor, renders designs to files and prints share links.

Examples:
  qrforge serve --port 8080
  qrforge render --type url --value https://exon.dev --format png --out ./out
  qrforge link --type wifi --ssid home --password secret --copy`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is search in ., $XDG_CONFIG_HOME/qrforge, /etc/qrforge)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = a.loader.Viper().BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newServeCommand(a), newRenderCommand(a), newLinkCommand(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := a.loader.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.NewWithWriter(cmd.ErrOrStderr(), "qrforge", cfg.LogLevel)
	if used := a.loader.ConfigFileUsed(); used != "" {
		a.log.Debug().Str("file", used).Msg("loaded config file")
	}
	return nil
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
