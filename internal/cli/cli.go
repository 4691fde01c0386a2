// Package cli implements the querygraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/querygraph/pkg/buildinfo"
	"github.com/matzehuels/querygraph/pkg/cache"
	"github.com/matzehuels/querygraph/pkg/config"
	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/graph"
	"github.com/matzehuels/querygraph/pkg/observability"
	"github.com/matzehuels/querygraph/pkg/schedule"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "querygraph"

	// envConfig names a config file when --config is not given.
	envConfig = "QUERYGRAPH_CONFIG"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
	out        io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (not logs).
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "querygraph edits and renders graph query results",
		Long: `querygraph loads the nodes and relationships returned by a graph query,
lets you delete, undo, redo and restyle them, finds weighted shortest paths,
and renders the result as a node-link diagram.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (TOML); defaults to $"+envConfig)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.statsCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose and loads the config before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.LogHooks{Logger: c.Logger}.Install()
	}

	path := c.configPath
	if path == "" {
		path = os.Getenv(envConfig)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.Config = cfg

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Editor Factory
// =============================================================================

// newEditor returns an editor configured from c.Config. Batch commands pass
// a manual scheduler so no auto-layout timer outlives the command.
func (c *CLI) newEditor(ctx context.Context, sched schedule.Scheduler) *editor.Editor {
	opts := editor.OptionsFromConfig(c.Config)
	opts.Context = ctx
	opts.Logger = c.Logger
	opts.Scheduler = sched
	return editor.New(opts)
}

// openGraph reads a graph file into a fresh editor.
func (c *CLI) openGraph(ctx context.Context, path string, sched schedule.Scheduler) (*editor.Editor, error) {
	prog := newProgress(c.Logger)

	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	ed := c.newEditor(ctx, sched)
	res, err := graph.Load(ed, g)
	if err != nil {
		ed.Close()
		return nil, err
	}
	if res.SkippedNodes+res.SkippedEdges > 0 {
		c.Logger.Warn("duplicate ids ignored", "nodes", res.SkippedNodes, "edges", res.SkippedEdges)
	}
	prog.done("Loaded " + path)
	return ed, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache returns the configured artifact cache wrapped with hooks.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if url := c.Config.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(url)
		if err != nil {
			return nil, err
		}
		return cache.WithHooks(rc), nil
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.WithHooks(fc), nil
}

// cacheTTL is how long rendered artifacts are kept.
func (c *CLI) cacheTTL() time.Duration {
	return c.Config.Cache.TTL.Std()
}
