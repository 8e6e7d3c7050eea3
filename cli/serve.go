package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/TFMV/moviegraph/host"
	"github.com/TFMV/moviegraph/metrics"
	"github.com/TFMV/moviegraph/server"
	"github.com/spf13/cobra"
)

type serveOpts struct {
	data   string
	port   int
	fps    int
	width  float64
	height float64
}

func newServeCmd(g *globalOpts) *cobra.Command {
	opts := serveOpts{
		port:   8080,
		fps:    host.DefaultFPS,
		width:  defaultWidth,
		height: defaultHeight,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a dataset live and serve it over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.data == "" {
				return fmt.Errorf("--data is required")
			}
			return runServe(cmd.Context(), g, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "dataset file (json, toml or csv)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", opts.port, "port to listen on")
	cmd.Flags().IntVar(&opts.fps, "fps", opts.fps, "simulation ticks per second")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	return cmd
}

func runServe(ctx context.Context, g *globalOpts, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	collector := metrics.New()

	loop, ds, err := loadLoop(ctx, g, opts.data, opts.width, opts.height,
		host.WithFPS(opts.fps), host.WithMetrics(collector))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run(ctx) }()

	srv := server.New(loop, server.Config{
		Port:    opts.port,
		Dataset: ds,
		Metrics: collector,
		Logger:  logger,
	})
	err = srv.Start(ctx)
	cancel()

	if lerr := <-loopErr; lerr != nil && !errors.Is(lerr, context.Canceled) {
		return lerr
	}
	return err
}
