package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/pipeline"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
	"github.com/plasmidmap/plasmidmap/pkg/render/sink"
)

// settings is the decoded configuration: flags over PLASMIDMAP_* env vars
// over the config file over defaults.
type settings struct {
	Render renderSettings `mapstructure:"render"`
	Cache  cacheSettings  `mapstructure:"cache"`
	Server serverSettings `mapstructure:"server"`
}

type renderSettings struct {
	FontSize    int     `mapstructure:"font_size"`
	Orientation string  `mapstructure:"orientation"`
	ShowSizes   bool    `mapstructure:"show_sizes"`
	DPI         float64 `mapstructure:"dpi"`
	Formats     string  `mapstructure:"formats"`
}

type cacheSettings struct {
	Enabled bool `mapstructure:"enabled"`
}

type serverSettings struct {
	Addr     string `mapstructure:"addr"`
	RedisURL string `mapstructure:"redis_url"`
}

// defaults lists every config key. Keys outside this table are rejected by
// "config set".
var defaults = map[string]any{
	"render.font_size":   plasmid.DefaultFontSize,
	"render.orientation": plasmid.Horizontal.String(),
	"render.show_sizes":  false,
	"render.dpi":         pipeline.DefaultDPI,
	"render.formats":     pipeline.FormatSVG,
	"cache.enabled":      true,
	"server.addr":        ":8080",
	"server.redis_url":   "",
}

func newConfig(path string) *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if path != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlag lets a flag, when given, take precedence over the config key.
func (c *CLI) bindFlag(key string, f *pflag.Flag) {
	if err := c.config.BindPFlag(key, f); err != nil {
		c.Logger.Debug("bind flag", "key", key, "err", err)
	}
}

// loadConfig reads the config file if there is one.
func (c *CLI) loadConfig() error {
	if c.configPath == "" {
		return nil
	}
	if _, err := os.Stat(c.configPath); os.IsNotExist(err) {
		return nil
	}
	if err := c.config.ReadInConfig(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", c.configPath)
	}
	return nil
}

func (c *CLI) settings() settings {
	var s settings
	if err := c.config.Unmarshal(&s); err != nil {
		c.Logger.Warn("ignoring unreadable config", "err", err)
		return defaultSettings()
	}
	return s
}

func defaultSettings() settings {
	return settings{
		Render: renderSettings{
			FontSize:    plasmid.DefaultFontSize,
			Orientation: plasmid.Horizontal.String(),
			DPI:         pipeline.DefaultDPI,
			Formats:     pipeline.FormatSVG,
		},
		Cache:  cacheSettings{Enabled: true},
		Server: serverSettings{Addr: ":8080"},
	}
}

// renderConfig converts the render settings into an engine config.
func (s renderSettings) renderConfig() (plasmid.RenderConfig, error) {
	o, err := plasmid.ParseOrientation(s.Orientation)
	if err != nil {
		return plasmid.RenderConfig{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.orientation")
	}
	return plasmid.RenderConfig{FontSize: s.FontSize, Orientation: o, ShowSizes: s.ShowSizes}, nil
}

// =============================================================================
// config command
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage plasmidmap configuration",
		Long:  "Show, get, or set configuration values. Values can also be set with PLASMIDMAP_* environment variables (for example PLASMIDMAP_RENDER_DPI).",
		Example: `  plasmidmap config                          # show all config
  plasmidmap config set render.font_size 14  # larger labels by default
  plasmidmap config get server.addr          # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.configShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.configShow(cmd.OutOrStdout())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.configGet(cmd.OutOrStdout(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.configSet(args[0], args[1]); err != nil {
				return err
			}
			printSuccess("Set %s = %s", args[0], args[1])
			printDetail("File: %s", c.configPath)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath)
			return nil
		},
	})

	return cmd
}

func (c *CLI) configShow(w io.Writer) error {
	out, err := yaml.Marshal(c.config.AllSettings())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func (c *CLI) configGet(w io.Writer, key string) error {
	key = strings.ToLower(key)
	if _, ok := defaults[key]; !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", key)
	}
	fmt.Fprintln(w, c.config.Get(key))
	return nil
}

func (c *CLI) configSet(key, value string) error {
	key = strings.ToLower(key)
	if _, ok := defaults[key]; !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q (known: %s)", key, strings.Join(configKeys(), ", "))
	}
	if c.configPath == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cannot determine config file location")
	}

	prev := c.config.Get(key)
	switch value {
	case "true", "yes", "on":
		c.config.Set(key, true)
	case "false", "no", "off":
		c.config.Set(key, false)
	default:
		c.config.Set(key, value)
	}
	if err := c.checkConfig(); err != nil {
		c.config.Set(key, prev)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := c.config.WriteConfigAs(c.configPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// checkConfig rejects settings that do not decode or describe an invalid
// render config.
func (c *CLI) checkConfig() error {
	var s settings
	if err := c.config.Unmarshal(&s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	if _, err := s.Render.renderConfig(); err != nil {
		return err
	}
	if err := errors.ValidateFontSize(s.Render.FontSize); err != nil {
		return err
	}
	if s.Render.DPI <= 0 || s.Render.DPI > sink.MaxDPI {
		return errors.New(errors.ErrCodeInvalidConfig, "render.dpi %g out of range (0, %g]", s.Render.DPI, sink.MaxDPI)
	}
	return pipeline.ValidateFormats(pipeline.ParseFormats(s.Render.Formats))
}

func configKeys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
