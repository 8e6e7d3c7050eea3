package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/TFMV/moviegraph/config"
	"github.com/TFMV/moviegraph/graph"
	"github.com/TFMV/moviegraph/render"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
)

var version = "dev"

// globalOpts holds the persistent flags shared by every command.
type globalOpts struct {
	configPath string
	verbose    bool
	seed       int64
}

// Execute runs the CLI with ctx and returns the first command error.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:          "moviegraph",
		Short:        "moviegraph grows an interactive graph of movies and the people who made them",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "settings file (toml, yaml or json)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "placement seed, 0 for a random one")

	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

// newGraph builds a graph from the global options: settings from the
// config file and environment, measured fonts and an optional seed.
func newGraph(ctx context.Context, opts *globalOpts, width, height float64) (*graph.Graph, error) {
	logger := loggerFromContext(ctx)

	settings, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var labels render.LabelRenderer
	if fl, err := render.NewFontLabels(); err == nil {
		labels = fl
	} else {
		logger.Warn("falling back to monospace label metrics", "err", err)
		labels = render.MonoLabels{}
	}

	gopts := []graph.Option{
		graph.WithLogger(logger),
		graph.WithLabels(labels),
		graph.WithSettings(settings),
	}
	if opts.seed != 0 {
		gopts = append(gopts, graph.WithSeed(opts.seed))
	}
	return graph.New(width, height, gopts...), nil
}
