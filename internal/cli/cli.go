package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plasmidmap/plasmidmap/pkg/buildinfo"
	"github.com/plasmidmap/plasmidmap/pkg/cache"
	"github.com/plasmidmap/plasmidmap/pkg/observability"
	"github.com/plasmidmap/plasmidmap/pkg/pipeline"
)

const (
	appName   = "plasmidmap"
	envPrefix = "PLASMIDMAP" // PLASMIDMAP_RENDER_DPI overrides render.dpi
)

// Log levels for cmd/plasmidmap.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI carries the logger and configuration shared by every command.
type CLI struct {
	Logger *log.Logger

	config     *viper.Viper
	configPath string
}

// New creates a CLI logging to w. Without a home directory the CLI runs on
// defaults and "config set" is unavailable.
func New(w io.Writer, level log.Level) *CLI {
	path, _ := configFile()
	return &CLI{
		Logger:     newLogger(w, level),
		config:     newConfig(path),
		configPath: path,
	}
}

// SetLogLevel updates the logger's level. At debug level the pipeline, cache
// and server hooks log through the CLI logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
}

// RootCommand assembles the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "plasmidmap draws linear maps of plasmid annotations",
		Long:         `plasmidmap reads GenBank files, feature tables or element lists and draws them as a linear plasmid map with labelled boxes, arrows and promoter markers.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(
		c.renderCommand(),
		c.inspectCommand(),
		c.editCommand(),
		c.paletteCommand(),
		c.serveCommand(),
		c.configCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)

	return root
}

// newRunner builds a pipeline runner over the local cache. The cache is
// skipped when noCache is set or cache.enabled is false.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache || !c.settings().Cache.Enabled)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache opens the file cache, degrading to no cache when there is no
// home directory to put it in.
func newCache(disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// xdgPath resolves name under $env, or under ~/fallback when env is unset,
// following the XDG base directory layout.
func xdgPath(env, fallback string, name ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base, appName}, name...)...), nil
}

// cacheDir is ~/.cache/plasmidmap unless XDG_CACHE_HOME says otherwise.
func cacheDir() (string, error) {
	return xdgPath("XDG_CACHE_HOME", ".cache")
}

// configFile is ~/.config/plasmidmap/config.yaml unless XDG_CONFIG_HOME says
// otherwise.
func configFile() (string, error) {
	return xdgPath("XDG_CONFIG_HOME", ".config", "config.yaml")
}
