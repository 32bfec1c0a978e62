package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/mash-protocol/mash-regs/pkg/memdev"
	"github.com/mash-protocol/mash-regs/pkg/transport"
)

// ServeOptions configures the serve command.
type ServeOptions struct {
	// Address to listen on (default transport.DefaultAddress).
	Address string

	// ImagePath is the device image served to clients.
	ImagePath string

	// ImageSize is the size of a newly created image.
	ImageSize int

	// Save writes the image back to ImagePath on shutdown.
	Save bool

	// Ready is called with the listen address once the server accepts
	// connections (optional).
	Ready func(addr string)
}

// RunServe exposes a device image over the stream protocol until ctx is
// cancelled.
func RunServe(ctx context.Context, opts ServeOptions, w io.Writer) error {
	if opts.ImagePath == "" {
		return fmt.Errorf("device image (-image) required")
	}
	size := opts.ImageSize
	if size <= 0 {
		size = DefaultImageSize
	}
	img, err := memdev.OpenOrCreate(opts.ImagePath, size)
	if err != nil {
		return err
	}

	dev := transport.Serialize(img)
	srv, err := transport.NewServer(transport.ServerConfig{
		Address: opts.Address,
		Device:  dev,
		OnError: func(err error) {
			fmt.Fprintf(w, "connection error: %v\n", err)
		},
	})
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}

	addr := srv.Addr().String()
	fmt.Fprintf(w, "Serving %s (%d bytes) on %s\n", opts.ImagePath, img.Size(), addr)
	if opts.Ready != nil {
		opts.Ready(addr)
	}

	<-ctx.Done()
	srv.Stop()

	// Connections are closed; the image is no longer shared.
	fmt.Fprintf(w, "Served %d reads, %d writes\n", img.Reads(), img.Writes())
	if opts.Save {
		if err := img.Save(opts.ImagePath); err != nil {
			return fmt.Errorf("failed to save image: %w", err)
		}
	}
	return nil
}
