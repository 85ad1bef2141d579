// Package main provides the propgraph CLI, an inspector for graph documents.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/orneryd/propgraph/pkg/audit"
	"github.com/orneryd/propgraph/pkg/config"
	"github.com/orneryd/propgraph/pkg/graph"
	"github.com/orneryd/propgraph/pkg/loader"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs after flag parsing.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	strict     bool
	auditLog   bool

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "propgraph",
		Short: "propgraph - inspect property graph documents",
		Long: `propgraph loads a graph document (native YAML/JSON layout or a Neo4j
combined JSON export) into an in-memory property graph and reports on it.

Commands:
  • stats       element counts, label histograms and memory footprint
  • components  weakly connected components
  • schema      label-level schema graph
  • neighbors   breadth-first neighbourhood of a vertex
  • path        unweighted shortest path between two vertices`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file (PROPGRAPH_* variables override it)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (overrides config)")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: text or json (overrides config)")
	pf.BoolVar(&a.strict, "strict", false, "Fail on dangling references instead of skipping them")
	pf.BoolVar(&a.auditLog, "audit", false, "Log every element added while loading at debug level")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "propgraph v%s (%s)\n", version, commit)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print an example configuration file",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), config.ExampleConfigYAML)
		},
	})

	rootCmd.AddCommand(a.statsCmd())
	rootCmd.AddCommand(a.componentsCmd())
	rootCmd.AddCommand(a.schemaCmd())
	rootCmd.AddCommand(a.neighborsCmd())
	rootCmd.AddCommand(a.pathCmd())
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFromEnvOrFile(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		a.cfg.Logging.Format = a.logFormat
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.log = a.cfg.Logger()
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.WithField("config", a.cfg.String()).Debug("configuration loaded")
	return nil
}

// load reads the document at path with the configured graph options.
func (a *app) load(path string) (*graph.PropertyGraph, error) {
	opts := loader.Options{
		Graph:  a.cfg.GraphOptions(),
		Strict: a.strict,
		Log:    a.log,
	}
	if a.auditLog {
		cfg := audit.DefaultConfig()
		cfg.Level = logrus.DebugLevel
		cfg.Retain = 0
		opts.Prepare = func(g *graph.PropertyGraph) {
			audit.Attach(audit.NewLogger(a.log, cfg), g)
		}
	}

	g, res, err := loader.LoadFile(path, opts)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"graph":      g.ID(),
		"vertices":   res.Vertices,
		"edges":      res.Edges,
		"hyperedges": res.HyperEdges,
		"multiedges": res.MultiEdges,
		"skipped":    len(res.Skipped),
	}).Info("graph loaded")
	return g, nil
}
