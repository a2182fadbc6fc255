package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/prasetyowira/qrgen/domain/qr"
	"github.com/prasetyowira/qrgen/infrastructure/output"
	"github.com/spf13/cobra"
)

// renderFlags are the output and style flags shared by generate, wifi and vcard.
type renderFlags struct {
	fg         string
	bg         string
	level      string
	moduleSize int
	logo       string
	logoRatio  float64
	out        string
	preview    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fg, "fg", "", "Foreground color (name, #rgb or #rrggbb)")
	cmd.Flags().StringVar(&f.bg, "bg", "", "Background color (name, #rgb or #rrggbb)")
	cmd.Flags().StringVarP(&f.level, "level", "l", "", "Error correction level (L, M, Q, H)")
	cmd.Flags().IntVar(&f.moduleSize, "module-size", 0, "Pixels per module")
	cmd.Flags().StringVar(&f.logo, "logo", "", "Image to place in the center")
	cmd.Flags().Float64Var(&f.logoRatio, "logo-ratio", qr.DefaultLogoRatio, "Logo size as a fraction of the symbol (0.10-0.40)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output PNG path (default derived from the payload)")
	cmd.Flags().BoolVar(&f.preview, "print", false, "Also print the symbol to the terminal")
}

// style overlays the flags on base.
func (f *renderFlags) style(base qr.Style) (qr.Style, *qr.LogoSpec, error) {
	style := base

	var err error
	if style.Foreground, err = qr.ParseColorOr(f.fg, style.Foreground); err != nil {
		return style, nil, err
	}
	if style.Background, err = qr.ParseColorOr(f.bg, style.Background); err != nil {
		return style, nil, err
	}
	if f.level != "" {
		if style.Level, err = qr.ParseLevel(f.level); err != nil {
			return style, nil, err
		}
	}
	if f.moduleSize < 0 || f.moduleSize > 100 {
		return style, nil, fmt.Errorf("module size %d must be between 1 and 100", f.moduleSize)
	}
	if f.moduleSize > 0 {
		style.ModuleSize = f.moduleSize
	}

	var logo *qr.LogoSpec
	if f.logo != "" {
		logo = &qr.LogoSpec{Path: f.logo, SizeRatio: f.logoRatio}
	}
	return style, logo, nil
}

// save writes result and reports degraded outcomes on stderr.
func (f *renderFlags) save(cmd *cobra.Command, app *cliApp, result *qr.Result) error {
	path := f.out
	if path == "" {
		path = qr.DefaultFilename(result.Payload, result.Kind)
	}
	if filepath.Ext(path) == "" {
		path += ".png"
	}
	if err := output.WritePNGFile(path, result.Image); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	errOut := cmd.ErrOrStderr()
	if result.LogoErr != nil {
		fmt.Fprintf(errOut, "warning: logo skipped: %v\n", result.LogoErr)
	}
	if result.HistoryErr != nil {
		fmt.Fprintf(errOut, "warning: history not updated: %v\n", result.HistoryErr)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Saved %s (%s, version %d, level %s)\n", path, result.Kind, result.Version, result.Level)

	if f.preview {
		text, err := app.encoder.Terminal(cmd.Context(), result.Payload, result.Level)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
	}
	return nil
}

func newGenerateCmd(app *cliApp) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "generate <text...>",
		Short: "Classify text and save it as a QR code",
		Long: `Generate classifies the given text and writes a PNG QR code.

Examples:
  # https://example.com, saved as qrcode_example.com.png
  qrgen generate example.com

  # mailto: link, navy on white, medium error correction
  qrgen generate user@example.com --fg navy --level M -o mail.png

  # with a centered logo and a terminal preview
  qrgen generate https://example.com --logo logo.png --logo-ratio 0.3 --print`,
		Aliases: []string{"gen"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd); err != nil {
				return err
			}
			style, logo, err := flags.style(app.service.Style())
			if err != nil {
				return err
			}

			result, err := app.service.GenerateText(cmd.Context(), strings.Join(args, " "), style, logo)
			if err != nil {
				return err
			}
			return flags.save(cmd, app, result)
		},
	}

	flags.register(cmd)
	return cmd
}

func newWiFiCmd(app *cliApp) *cobra.Command {
	flags := &renderFlags{}
	var ssid, password string

	cmd := &cobra.Command{
		Use:   "wifi",
		Short: "Save a WiFi network (WPA) as a QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.open(cmd); err != nil {
				return err
			}
			style, logo, err := flags.style(app.service.Style())
			if err != nil {
				return err
			}

			result, err := app.service.GenerateWiFi(cmd.Context(), ssid, password, style, logo)
			if err != nil {
				return err
			}
			return flags.save(cmd, app, result)
		},
	}

	cmd.Flags().StringVar(&ssid, "ssid", "", "Network name")
	cmd.Flags().StringVar(&password, "password", "", "Network password")
	_ = cmd.MarkFlagRequired("ssid")
	flags.register(cmd)
	return cmd
}

func newVCardCmd(app *cliApp) *cobra.Command {
	flags := &renderFlags{}
	var name, phone, email string

	cmd := &cobra.Command{
		Use:   "vcard",
		Short: "Save a contact card (vCard 3.0) as a QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.open(cmd); err != nil {
				return err
			}
			style, logo, err := flags.style(app.service.Style())
			if err != nil {
				return err
			}

			result, err := app.service.GenerateVCard(cmd.Context(), name, phone, email, style, logo)
			if err != nil {
				return err
			}
			return flags.save(cmd, app, result)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("name")
	flags.register(cmd)
	return cmd
}
