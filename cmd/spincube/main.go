// spincube - a spinning colored cube
//
// Controls:
//
//	A/D         - Move left/right
//	W/S         - Move up/down
//	Left/Right  - Rotate 1° about (2,3,0) / 12° about (8,4,0)
//	Up/Down     - Rotate -3° about (2,1,0) / 3° about (-2,1,0)
//	Close/Esc   - Quit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/spincube/pkg/display/ansi"
	"github.com/taigrr/spincube/pkg/display/cells"
	"github.com/taigrr/spincube/pkg/display/window"
	"github.com/taigrr/spincube/pkg/scene"
)

type options struct {
	backend string
	hud     bool
	verbose bool
}

func newCommand(cfg *scene.Config, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spincube",
		Short: "Spinning colored cube demo",
		Long: `spincube - a spinning colored cube

Renders an autorotating cube in an 800x600 window (or the terminal).

Controls:
  A/D         - Move left/right
  W/S         - Move up/down
  Arrow keys  - Rotate
  Close/Esc   - Quit`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.verbose {
				log.SetLogLevel(log.Debug)
			}
			return run(cmd.Context(), *cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", "window", "Presentation backend: window, ansi or tcell")
	cmd.Flags().BoolVar(&cfg.Wireframe, "wireframe", false, "Draw cube edges over the faces")
	cmd.Flags().BoolVar(&cfg.DepthTest, "depth-test", false, "Hide occluded faces instead of drawing in order")
	cmd.Flags().BoolVar(&opts.hud, "hud", false, "Show an FPS overlay (ansi backend)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	return cmd
}

func newBackend(cfg scene.Config, opts *options) (scene.Backend, error) {
	switch opts.backend {
	case "window":
		return window.New(cfg.FrameDelay), nil
	case "ansi":
		return ansi.New(opts.hud), nil
	case "tcell":
		return cells.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (use window, ansi or tcell)", opts.backend)
	}
}

func run(ctx context.Context, cfg scene.Config, opts *options) error {
	backend, err := newBackend(cfg, opts)
	if err != nil {
		return err
	}
	loop, err := scene.New(cfg, backend)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := loop.Close(); cerr != nil {
			log.Warnf("close %s backend: %v", opts.backend, cerr)
		}
	}()
	log.Infof("Running with %s backend", opts.backend)
	if err := loop.Run(ctx); err != nil {
		return err
	}
	log.Infof("Quit after %d frames", loop.Frames())
	return nil
}

func main() {
	log.SetLogLevel(log.Warning)
	cfg := scene.DefaultConfig()
	cmd := newCommand(&cfg, &options{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, cmd)
	stop()
	os.Exit(code)
}

// execute runs cmd and returns the process exit status.
func execute(ctx context.Context, cmd *cobra.Command) int {
	if err := fang.Execute(ctx, cmd); err != nil {
		log.Errf("spincube: %v", err)
		return 1
	}
	return 0
}
