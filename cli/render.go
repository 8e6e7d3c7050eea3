package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/TFMV/moviegraph/graph"
	"github.com/TFMV/moviegraph/host"
	"github.com/TFMV/moviegraph/ingest"
	"github.com/TFMV/moviegraph/models"
	"github.com/TFMV/moviegraph/render"
	"github.com/spf13/cobra"
)

const (
	formatSVG   = "svg"
	formatASCII = "ascii"
	formatJSON  = "json"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	data   string   // dataset file
	frames int      // ticks to run after the load and after each expansion
	format string   // svg, ascii or json
	output string   // output file, stdout when empty
	expand []string // node ids expanded in order after the root settles
	width  float64  // viewport width in pixels
	height float64  // viewport height in pixels
	cols   int      // ascii grid columns
	rows   int      // ascii grid rows
}

func newRenderCmd(g *globalOpts) *cobra.Command {
	opts := renderOpts{
		frames: 120,
		format: formatSVG,
		width:  defaultWidth,
		height: defaultHeight,
		cols:   100,
		rows:   40,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run a dataset headless and write the last frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			if opts.data == "" {
				return fmt.Errorf("--data is required")
			}
			return runRender(cmd, g, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "dataset file (json, toml or csv)")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", opts.frames, "frames to simulate per stage")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, ascii, json")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVar(&opts.expand, "expand", nil, "node ids to expand after the root, in order")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().IntVar(&opts.cols, "cols", opts.cols, "ascii columns")
	cmd.Flags().IntVar(&opts.rows, "rows", opts.rows, "ascii rows")
	return cmd
}

func validateFormat(f string) error {
	switch f {
	case formatSVG, formatASCII, formatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be svg, ascii or json)", f)
	}
}

func runRender(cmd *cobra.Command, g *globalOpts, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	loop, _, err := loadLoop(ctx, g, opts.data, opts.width, opts.height)
	if err != nil {
		return err
	}

	loop.Steps(opts.frames)
	for _, id := range opts.expand {
		if err := loop.Do(func(gr *graph.Graph) error {
			_, err := ingest.Expand(gr, id)
			return err
		}); err != nil {
			return fmt.Errorf("expand %s: %w", id, err)
		}
		loop.Steps(opts.frames)
	}

	out, err := encode(loop, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else {
		if err := os.WriteFile(opts.output, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		logger.Info("wrote frame", "path", opts.output, "format", opts.format)
	}

	printSummary(cmd.ErrOrStderr(), loop.Stats())
	prog.done(fmt.Sprintf("Rendered %d frames", loop.Frame().Tick))
	return nil
}

// loadLoop decodes the dataset, loads it into a fresh graph and wraps it in
// a loop.
func loadLoop(ctx context.Context, g *globalOpts, data string, width, height float64, lopts ...host.Option) (*host.Loop, *models.Dataset, error) {
	logger := loggerFromContext(ctx)

	ds, err := ingest.ProcessFile(data)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Debug("dataset decoded", "name", ds.Name, "nodes", len(ds.Nodes), "edges", len(ds.Edges))

	gr, err := newGraph(ctx, g, width, height)
	if err != nil {
		return nil, nil, err
	}
	root, err := ingest.Load(gr, ds)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("dataset loaded", "name", ds.Name, "root", root.ID)

	lopts = append([]host.Option{host.WithLogger(logger)}, lopts...)
	return host.New(gr, lopts...), ds, nil
}

func encode(loop *host.Loop, opts *renderOpts) ([]byte, error) {
	switch opts.format {
	case formatJSON:
		return render.EncodeFrame(loop.Frame())
	case formatASCII:
		canvas := render.NewASCIICanvas(opts.width, opts.height, opts.cols, opts.rows)
		loop.Render(canvas)
		return []byte(canvas.String()), nil
	default:
		var buf bytes.Buffer
		canvas := render.NewSVGCanvas(&buf, opts.width, opts.height, render.DefaultBackground)
		loop.Render(canvas)
		canvas.Close()
		return buf.Bytes(), nil
	}
}
