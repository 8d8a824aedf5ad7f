package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/cristianadrielbraun/qrforge/internal/share"
)

func newLinkCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print the edit and view links of a design",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromFlags(cmd, a.cfg.Upload)
			if err != nil {
				return err
			}
			base, _ := cmd.Flags().GetString("base")
			if base == "" {
				base = a.cfg.Server.BaseURL
			}
			if cfg.Logo != nil && cfg.Logo.HasImage() {
				a.log.Warn().Msg("links carry the logo settings but not the image")
			}

			edit := share.EditLink(base, cfg)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "edit:", edit)
			fmt.Fprintln(out, "view:", share.ViewLink(base, cfg))

			if copyLink, _ := cmd.Flags().GetBool("copy"); copyLink {
				if err := clipboard.WriteAll(edit); err != nil {
					return fmt.Errorf("failed to copy link: %w", err)
				}
				fmt.Fprintln(out, "edit link copied to clipboard")
			}
			return nil
		},
	}

	addDesignFlags(cmd)
	cmd.Flags().String("base", "", "site the links point at (default: server.base_url)")
	cmd.Flags().Bool("copy", false, "copy the edit link to the clipboard")
	return cmd
}
