package cmd

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cristianadrielbraun/qrforge/internal/config"
	"github.com/cristianadrielbraun/qrforge/internal/content"
	"github.com/cristianadrielbraun/qrforge/internal/handlers"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/style"
)

// designLogo decodes on top of the default logo settings, so a design file
// only names what it changes.
type designLogo style.Logo

func (l *designLogo) UnmarshalYAML(n *yaml.Node) error {
	*l = designLogo(style.DefaultLogo())
	return n.Decode((*style.Logo)(l))
}

// design is the YAML document read by --design.
type design struct {
	Type   content.Type   `yaml:"type"`
	Fields content.Fields `yaml:"fields"`
	Style  style.Config   `yaml:"style"`
	Logo   *designLogo    `yaml:"logo"`

	// LogoFile is read and embedded as the logo image.
	LogoFile string `yaml:"logo_file"`
}

// loadDesign reads a design file. Fields it leaves out take the defaults of
// a fresh configuration.
func loadDesign(path string, limits config.UploadConfig) (model.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Configuration{}, fmt.Errorf("failed to read design: %w", err)
	}
	var d design
	if err := yaml.Unmarshal(data, &d); err != nil {
		return model.Configuration{}, fmt.Errorf("failed to parse design %s: %w", path, err)
	}

	cfg := model.Configuration{Type: d.Type, Fields: d.Fields, Style: d.Style}
	if err := mergo.Merge(&cfg, model.Default()); err != nil {
		return model.Configuration{}, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if d.Logo != nil {
		logo := style.Logo(*d.Logo)
		cfg.Logo = &logo
	}
	if d.LogoFile != "" {
		if err := attachLogo(&cfg, d.LogoFile, limits); err != nil {
			return model.Configuration{}, err
		}
	}
	return cfg, cfg.Validate()
}

func attachLogo(cfg *model.Configuration, path string, limits config.UploadConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read logo: %w", err)
	}
	uri, err := handlers.LogoDataURI(data, limits)
	if err != nil {
		return fmt.Errorf("logo %s: %w", path, err)
	}
	if cfg.Logo == nil {
		logo := style.DefaultLogo()
		cfg.Logo = &logo
	}
	cfg.Logo.ImageData = uri
	return nil
}

func addDesignFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("design", "", "YAML design file")
	f.String("type", string(content.TypeURL), "content type (url, wifi, text, email, phone, location)")
	f.String("value", "", "content value")
	f.String("ssid", "", "wifi network name")
	f.String("password", "", "wifi password")
	f.String("security", content.SecurityWPA, "wifi security (WPA, WEP, None)")
	f.String("fg", string(style.DefaultModuleColor), "module colour")
	f.String("bg", string(style.DefaultBackgroundColor), "background colour")
	f.String("pattern", string(style.DefaultPattern), "module pattern (square, dots, rounded, classy)")
	f.String("corner", string(style.DefaultCorner), "corner style (square, extra-rounded, dot, classy-rounded)")
	f.String("ecl", string(style.DefaultErrorCorrection), "error correction level (L, M, Q, H)")
	f.Int("size", style.DefaultDisplaySize, "display size in pixels")
	f.String("logo", "", "logo image file")
	f.Float64("logo-size", style.DefaultLogoSize, "logo size as a fraction of the code")
	f.String("logo-padding", string(style.DefaultPaddingPreset), "logo plate preset (none, minimal, standard)")
	f.String("logo-position", string(style.DefaultLogoPosition), "logo position (center, top, bottom, left, right)")
}

// configFromFlags starts from --design, or the defaults, and applies every
// flag the user set.
func configFromFlags(cmd *cobra.Command, limits config.UploadConfig) (model.Configuration, error) {
	f := cmd.Flags()
	cfg := model.Default()
	if path, _ := f.GetString("design"); path != "" {
		var err error
		if cfg, err = loadDesign(path, limits); err != nil {
			return model.Configuration{}, err
		}
	}

	str := func(name string) (string, bool) {
		v, _ := f.GetString(name)
		return v, f.Changed(name)
	}

	if v, ok := str("type"); ok {
		t, valid := content.ParseType(v)
		if !valid {
			return model.Configuration{}, fmt.Errorf("unknown content type %q", v)
		}
		cfg.Type = t
	}
	fields := cfg.Fields.Clone()
	if fields == nil {
		fields = content.Fields{}
	}
	for _, name := range []string{content.FieldValue, content.FieldSSID, content.FieldPassword, content.FieldSecurity} {
		if v, ok := str(name); ok {
			fields[name] = v
		}
	}
	if cfg.Type == content.TypeWiFi && fields[content.FieldSecurity] == "" {
		fields[content.FieldSecurity], _ = f.GetString("security")
	}
	cfg = cfg.WithContent(cfg.Type, fields)

	var opts []style.Option
	if v, ok := str("fg"); ok {
		opts = append(opts, style.WithModuleColor(style.Color(v)))
	}
	if v, ok := str("bg"); ok {
		opts = append(opts, style.WithBackgroundColor(style.Color(v)))
	}
	if v, ok := str("pattern"); ok {
		opts = append(opts, style.WithPattern(style.Pattern(v)))
	}
	if v, ok := str("corner"); ok {
		opts = append(opts, style.WithCorner(style.Corner(v)))
	}
	if v, ok := str("ecl"); ok {
		opts = append(opts, style.WithErrorCorrection(style.ErrorCorrection(v)))
	}
	if f.Changed("size") {
		n, _ := f.GetInt("size")
		opts = append(opts, style.WithDisplaySize(n))
	}
	cfg, err := cfg.WithStyle(opts...)
	if err != nil {
		return model.Configuration{}, err
	}

	if path, ok := str("logo"); ok && path != "" {
		if err := attachLogo(&cfg, path, limits); err != nil {
			return model.Configuration{}, err
		}
	}
	if cfg.Logo != nil {
		logo := *cfg.Logo
		if f.Changed("logo-size") {
			logo.SizeCoefficient, _ = f.GetFloat64("logo-size")
		}
		if v, ok := str("logo-padding"); ok {
			logo.PaddingPreset = style.PaddingPreset(v)
		}
		if v, ok := str("logo-position"); ok {
			logo.Position = style.Position(v)
		}
		if cfg, err = cfg.WithLogo(&logo); err != nil {
			return model.Configuration{}, err
		}
	}
	return cfg, nil
}
