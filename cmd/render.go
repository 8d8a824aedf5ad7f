package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/cristianadrielbraun/qrforge/internal/adapter"
	"github.com/cristianadrielbraun/qrforge/internal/export"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/renderer"
	"github.com/cristianadrielbraun/qrforge/internal/style"
)

func newRenderCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a design to an image file",
		Example: `  qrforge render --value https://exon.dev --pattern dots --format svg
  qrforge render --design mycode.yaml --resolution 2048 --out ./exports
  qrforge render --type wifi --ssid home --password secret --terminal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromFlags(cmd, a.cfg.Upload)
			if err != nil {
				return err
			}

			if terminal, _ := cmd.Flags().GetBool("terminal"); terminal {
				printTerminal(cmd, cfg)
				return nil
			}

			formatName, _ := cmd.Flags().GetString("format")
			if formatName == "" {
				formatName = a.cfg.Render.DefaultFormat
			}
			format, err := renderer.ParseFormat(formatName)
			if err != nil {
				return err
			}
			resolution, _ := cmd.Flags().GetInt("resolution")
			if resolution == 0 {
				resolution = cfg.Style.DisplaySizePx
			}
			if resolution > a.cfg.Render.MaxResolution {
				return fmt.Errorf("resolution must not exceed %d", a.cfg.Render.MaxResolution)
			}
			dir, _ := cmd.Flags().GetString("out")
			name, _ := cmd.Flags().GetString("name")

			handle, err := adapter.New(a.log).Create(cfg, nil)
			if err != nil {
				return err
			}
			// the renderer keeps an extension the name already has, so report
			// the path that was actually written
			var written string
			saver := renderer.DirSaver{Dir: dir}
			handle.SetSaver(renderer.SaverFunc(func(filename, contentType string, data []byte) error {
				if err := saver.Save(filename, contentType, data); err != nil {
					return err
				}
				written = filepath.Join(dir, filepath.Base(filename))
				return nil
			}))

			// nothing is on screen, so the restore need not wait
			done, err := export.New(time.Millisecond, a.log).ExportAt(handle, resolution, format, name)
			if err != nil {
				return err
			}
			<-done

			if written == "" {
				return fmt.Errorf("failed to export %s", name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), written)
			return nil
		},
	}

	addDesignFlags(cmd)
	cmd.Flags().StringP("format", "f", "", "output format (svg, png, jpeg); defaults to render.default_format")
	cmd.Flags().IntP("resolution", "r", 0, "export resolution in pixels (default: the display size)")
	cmd.Flags().StringP("out", "o", ".", "output directory")
	cmd.Flags().StringP("name", "n", "qrcode", "file name; the format extension is added when it has none")
	cmd.Flags().Bool("terminal", false, "print the code to the terminal instead of writing a file")
	return cmd
}

// printTerminal draws the payload with half blocks. Styling and logos do
// not apply, and Q rounds up to H.
func printTerminal(cmd *cobra.Command, cfg model.Configuration) {
	level := qrterminal.H
	switch cfg.Style.ErrorCorrection {
	case style.ErrorCorrectionL:
		level = qrterminal.L
	case style.ErrorCorrectionM:
		level = qrterminal.M
	}
	qrterminal.GenerateWithConfig(cfg.RenderData(), qrterminal.Config{
		Level:          level,
		Writer:         cmd.OutOrStdout(),
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		QuietZone:      1,
	})
}
