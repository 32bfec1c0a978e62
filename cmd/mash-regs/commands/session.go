// Package commands implements the mash-regs CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mash-protocol/mash-regs/pkg/log"
	"github.com/mash-protocol/mash-regs/pkg/memdev"
	"github.com/mash-protocol/mash-regs/pkg/regmap"
	"github.com/mash-protocol/mash-regs/pkg/scatter"
	"github.com/mash-protocol/mash-regs/pkg/transport"
)

// DefaultImageSize is the size of a device image created from scratch.
const DefaultImageSize = 64 * 1024

// SessionOptions configures how a command reaches the device.
type SessionOptions struct {
	// MapPath is the register map file (required).
	MapPath string

	// ImagePath is a raw device image file. Created on save if missing.
	ImagePath string

	// ImageSize is the size of a newly created image (default 64KB).
	ImageSize int

	// Remote is the address of a mash-regs serve instance. Takes
	// precedence over ImagePath.
	Remote string

	// GapThreshold overrides the map's gap threshold when >= 0.
	GapThreshold int

	// ProtocolLog is a file for the CBOR transaction log (optional).
	ProtocolLog string

	// Trace writes transaction events to Trace via slog (optional).
	Trace io.Writer

	// Loggers are additional transaction loggers, e.g. a metrics collector.
	Loggers []log.Logger
}

// Session is an open register map plus the device it describes.
type Session struct {
	Map    *regmap.Map
	Device transport.BlockDevice

	image      *memdev.Image
	imagePath  string
	client     *transport.Client
	fileLogger *log.FileLogger
	logger     log.Logger
	gap        int
}

// OpenSession loads the map and connects to the device.
func OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if opts.MapPath == "" {
		return nil, errors.New("register map (-map) required")
	}
	m, err := regmap.Load(opts.MapPath)
	if err != nil {
		return nil, err
	}

	s := &Session{Map: m, gap: opts.GapThreshold}

	switch {
	case opts.Remote != "":
		client, err := transport.Dial(ctx, opts.Remote)
		if err != nil {
			return nil, err
		}
		s.client = client
		s.Device = client
	case opts.ImagePath != "":
		size := opts.ImageSize
		if size <= 0 {
			size = DefaultImageSize
		}
		img, err := memdev.OpenOrCreate(opts.ImagePath, size)
		if err != nil {
			return nil, err
		}
		s.image = img
		s.imagePath = opts.ImagePath
		s.Device = img
	default:
		return nil, errors.New("device image (-image) or remote address (-remote) required")
	}

	loggers := append([]log.Logger{}, opts.Loggers...)
	if opts.ProtocolLog != "" {
		fl, err := log.NewFileLogger(opts.ProtocolLog)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create protocol log: %w", err)
		}
		s.fileLogger = fl
		loggers = append(loggers, fl)
	}
	if opts.Trace != nil {
		handler := slog.NewTextHandler(opts.Trace, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(handler)))
	}
	if len(loggers) > 0 {
		s.logger = log.NewMultiLogger(loggers...)
	}

	return s, nil
}

// NewRegistry creates an empty registry configured from the map and options.
func (s *Session) NewRegistry() *scatter.Registry {
	return newRegistry(s.Map, s.gap, s.logger)
}

func newRegistry(m *regmap.Map, gap int, logger log.Logger) *scatter.Registry {
	opts := m.Options()
	if gap >= 0 {
		opts = append(opts, scatter.WithGapThreshold(gap))
	}
	if logger != nil {
		opts = append(opts, scatter.WithLogger(logger))
	}
	return scatter.New(opts...)
}

// Reading is one decoded register.
type Reading struct {
	Register regmap.Register
	Value    regmap.Value
}

// Read reads the named registers, or every readable register when names is
// empty, in one pass. Readings are returned in address order.
func (s *Session) Read(ctx context.Context, names []string) ([]Reading, string, error) {
	reg := s.NewRegistry()
	values := make(map[string]regmap.Value)
	collect := func(name string, v regmap.Value) error {
		values[name] = v
		return nil
	}

	if len(names) == 0 {
		s.Map.BindReads(reg, collect)
	} else {
		for _, name := range names {
			if err := s.Map.BindRead(reg, name, collect); err != nil {
				return nil, reg.SessionID(), err
			}
		}
	}

	if err := reg.Read(ctx, s.Device.ReadBlock); err != nil {
		return nil, reg.SessionID(), err
	}

	var out []Reading
	for _, r := range s.Map.Sorted() {
		if v, ok := values[r.Name]; ok {
			out = append(out, Reading{Register: r, Value: v})
		}
	}
	return out, reg.SessionID(), nil
}

// Assignment is a textual register write.
type Assignment struct {
	Name  string
	Value string
}

// ParseAssignments parses name=value arguments.
func ParseAssignments(args []string) ([]Assignment, error) {
	out := make([]Assignment, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("invalid assignment %q (want name=value)", arg)
		}
		out = append(out, Assignment{Name: name, Value: value})
	}
	return out, nil
}

// Write writes the assignments in one pass, in the order given.
func (s *Session) Write(ctx context.Context, assignments []Assignment) error {
	reg := s.NewRegistry()
	for _, a := range assignments {
		if err := s.Map.BindWrite(reg, a.Name, a.Value); err != nil {
			return err
		}
	}
	return reg.Write(ctx, s.Device.WriteBlock)
}

// SaveImage writes a local image back to its file. It is a no-op for
// remote devices.
func (s *Session) SaveImage() error {
	if s.image == nil {
		return nil
	}
	return s.image.Save(s.imagePath)
}

// Close releases the device connection and protocol log.
func (s *Session) Close() error {
	var errs []error
	if s.client != nil {
		errs = append(errs, s.client.Close())
	}
	if s.fileLogger != nil {
		errs = append(errs, s.fileLogger.Close())
	}
	return errors.Join(errs...)
}
