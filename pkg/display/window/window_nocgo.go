//go:build (linux || freebsd) && !cgo

package window

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/taigrr/spincube/pkg/input"
)

var errNoCgo = errors.New("window backend requires cgo on this platform (build with CGO_ENABLED=1, or use --backend ansi|tcell)")

// Backend is unavailable on Linux and FreeBSD without cgo; Open always fails.
type Backend struct{}

// New returns the stub backend.
func New(_ time.Duration) *Backend {
	return &Backend{}
}

func (b *Backend) Open(_, _ int) error                                   { return errNoCgo }
func (b *Backend) Poll() ([]input.Event, error)                          { return nil, errNoCgo }
func (b *Backend) Present(_ *image.RGBA) error                           { return errNoCgo }
func (b *Backend) Close() error                                          { return nil }
func (b *Backend) Drive(_ context.Context, _ func() (bool, error)) error { return errNoCgo }
